package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type HAAvdvertisementAvailability struct {
	Topic               string `json:"topic"`                 // : "casa/online"
	PayloadAvailable    string `json:"payload_available"`     // : "online"
	PayloadNotAvailable string `json:"payload_not_available"` // : "offline"
}

type HADeviceSpec struct {
	Name        string   `json:"name"` // : "Casa Controller"
	Identifiers []string `json:"ids"`  // : ["casa_controller"]
}

type HAAdvertisement struct { //nolint:govet // struct layout optimized for JSON field order
	HAAvdvertisementAvailability []HAAvdvertisementAvailability `json:"availability"`
	Device                       HADeviceSpec                   `json:"device"`      // Device info
	UniqueID                     string                         `json:"uniq_id"`     // "casa_toggle-sala"
	Name                         string                         `json:"name"`        // : "Luz da Sala"
	StateTopic                   string                         `json:"state_topic"` // : "casa/sala/state"
	PayloadOn                    string                         `json:"payload_on"`  // : "true"
	PayloadOff                   string                         `json:"payload_off"`
	DeviceClass                  string                         `json:"device_class"` // : "switch"
	Platform                     string                         `json:"platform"`     // "binary_sensor"
	Qos                          int                            `json:"qos"`
}

func (ha HAAdvertisement) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HAAdvertisement: %v", err)
		return ""
	}
	return string(data)
}

// ConstructToggleAdvertisement builds the home assistant discovery payload
// for one device toggle. The controller only reports state over mqtt; HA
// command topics are not wired, control stays on the web interface.
func ConstructToggleAdvertisement(key, label, stateTopic string) HAAdvertisement {
	return HAAdvertisement{
		Name:       label,
		StateTopic: stateTopic,
		PayloadOn:  "true",
		PayloadOff: "false",
		HAAvdvertisementAvailability: []HAAvdvertisementAvailability{
			{
				Topic:               Config.GetString("topic_base") + "/online",
				PayloadAvailable:    "online",
				PayloadNotAvailable: "offline",
			},
		},
		Qos:         0,
		UniqueID:    "casa_toggle-" + key,
		DeviceClass: "power",
		Platform:    "binary_sensor",
		Device: HADeviceSpec{
			Name:        "casa_controller",
			Identifiers: []string{"casa_controller"},
		},
	}
}

func AdvertiseHA(m HouseModel, client MQTT.Client) {
	for _, dev := range m.Devices {
		ha := ConstructToggleAdvertisement(dev.Key, dev.Label, m.StateTopic(dev.Key))
		if token := client.Publish("homeassistant/binary_sensor/"+dev.Key+"/toggle/config", 0, false, ha.ToJson()); token.Wait() && token.Error() != nil {
			Logger.Panic().Msgf("Error Publishing: %v", fmt.Errorf("%v", token.Error()))
		}
	}
}
