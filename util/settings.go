package util

import (
	"crypto/rand"
	"reflect"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const ENV_PREFIX = ""

var Config = viper.New()

var config_listeners []func()

func RegisterNewConfigListener(new_listener func()) {
	for _, listener := range config_listeners {
		if reflect.ValueOf(new_listener).Pointer() == reflect.ValueOf(listener).Pointer() {
			Logger.Warn().Msg("config listener already registered")
			return
		}
	}
	config_listeners = append(config_listeners, new_listener)
}

func OnNewConfig() {
	for _, listener := range config_listeners {
		listener()
	}
}

func GetRandString(n int) string {
	// using crypto/rand for better security
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		randBytes := make([]byte, 1)
		if _, err := rand.Read(randBytes); err != nil {
			// fallback to a simple approach if crypto/rand fails
			b[i] = letterBytes[i%len(letterBytes)]
		} else {
			b[i] = letterBytes[int(randBytes[0])%len(letterBytes)]
		}
	}
	return string(b)
}

func SetupConfig() {
	Config.SetEnvPrefix(ENV_PREFIX)
	// set defaults
	Config.SetDefault("Listen_addr", ":80")
	Config.SetDefault("Details_port", 8080)
	Config.SetDefault("Tick_ms", 100)
	Config.SetDefault("Trig_pin", 8)
	Config.SetDefault("Echo_pin", 9)
	Config.SetDefault("Ldr_pin", 16)
	Config.SetDefault("Indicator_pin", 25)
	Config.SetDefault("Front_light_pins", []int{12, 11, 13})
	Config.SetDefault("Presence_distance_cm", 15.0)
	Config.SetDefault("Echo_timeout_ms", 30)
	Config.SetDefault("Read_timeout_ms", 2000)
	Config.SetDefault("Panel_hold_ms", 2000)
	Config.SetDefault("Adc_fixed_raw", 876)
	Config.SetDefault("Broker_URI", "")
	Config.SetDefault("Cleansess", false)
	Config.SetDefault("Id_base", "casa_controller")
	Config.SetDefault("Username", "")
	Config.SetDefault("Password", "")
	Config.SetDefault("Topic_base", "casa")
	Config.SetDefault("Log_level", "info")

	// config file
	Config.SetConfigName("casa_controller")
	Config.AddConfigPath("/")
	Config.AddConfigPath("./")
	Config.AddConfigPath("./config")
	Config.AddConfigPath("/etc")
	Config.AddConfigPath("/casa_controller")
	Config.AddConfigPath("/casa_controller/config")

	err := Config.ReadInConfig()
	if err != nil {
		Logger.Warn().Msgf("unable to read config file, using defaults: %v", err)
	}

	// environment variables
	Config.AutomaticEnv()

	// watch for changes
	Config.WatchConfig()
	Config.OnConfigChange(func(e fsnotify.Event) {
		Logger.Info().Msgf("Config file changed: %v", e.Name)
		Logger.Debug().Msgf("Config Additional Info: %v", e.String())
		OnNewConfig()
	})
}
