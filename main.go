package main

import (
	"image"
	"time"

	"github.com/elijahnyp/casa_controller/display"
	"github.com/elijahnyp/casa_controller/hw"
	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

// nullFrameWriter and nullPanelWriter stand in when no matrix or panel
// driver is attached, desktop runs mostly. Board builds supply real
// drivers behind the same interfaces.
type nullFrameWriter struct{}

func (nullFrameWriter) WriteFrame(display.Frame) error { return nil }

type nullPanelWriter struct{}

func (nullPanelWriter) Show(img *image.Gray) error { return nil }

func main() {
	util.LogInit("info")
	util.SetupConfig()
	util.RegisterNewConfigListener(func() { util.LogInit(util.Config.GetString("log_level")) })

	var house util.HouseModel
	util.RegisterNewConfigListener(func() {
		if err := house.BuildModel(); err != nil {
			util.Logger.Error().Msgf("Error building house model: %v", err)
		}
	})
	util.OnNewConfig()

	var publisher *StatePublisher
	if util.Config.GetString("broker_uri") != "" {
		// hook registration has to precede the first connect so the
		// discovery advertisements go out on connect
		publisher = NewStatePublisher(house)
		util.MqttInit()
		util.RegisterNewConfigListener(util.MqttInit)
	}

	store := state.NewStore()
	pins := hw.OpenPins()

	echoTimeout := time.Duration(util.Config.GetInt("echo_timeout_ms")) * time.Millisecond
	ranger := hw.NewRanger(pins, echoTimeout)
	presence := NewPresenceController(ranger, pins, util.Config.GetFloat64("presence_distance_cm"))

	adc := hw.FixedADC{Raw: uint16(util.Config.GetInt("adc_fixed_raw"))}
	temp := hw.NewTemperatureReader(adc)

	matrix := display.NewMatrix(house, nullFrameWriter{})
	panelHold := time.Duration(util.Config.GetInt("panel_hold_ms")) * time.Millisecond
	panel := display.NewPanel(nullPanelWriter{}, panelHold)

	dashboard := NewDashboard(store, temp, presence)
	monitor := util.NewMonitorServer()
	dashboard.Register(monitor)
	if err := monitor.Start(); err != nil {
		util.Logger.Error().Msgf("Error starting monitor server: %v", err)
	}
	util.RegisterNewConfigListener(func() { monitor.Restart() })

	server := NewServer(store, NewRouter(house), NewPageRenderer(house), temp)
	server.OnChange(dashboard.PushState)
	if err := server.Start(); err != nil {
		util.Logger.Fatal().Msgf("startup failed: %v", err)
	}

	util.Logger.Info().Msg("ready")

	tick := time.Duration(util.Config.GetInt("tick_ms")) * time.Millisecond
	ticker := time.NewTicker(tick)
	for now := range ticker.C {
		presence.Tick()

		snap := store.Snapshot()
		pins.SetIndicator(snap.Indicator)
		matrix.Refresh(snap)
		panel.Refresh(snap, now)
		if publisher != nil {
			publisher.Publish(snap)
		}
	}
}
