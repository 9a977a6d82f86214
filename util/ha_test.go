package util

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestConstructToggleAdvertisement(t *testing.T) {
	Config.Set("topic_base", "casa")

	advertisement := ConstructToggleAdvertisement("sala", "Luz da Sala", "casa/sala/state")

	if advertisement.Name != "Luz da Sala" {
		t.Errorf("Name = %s, expected 'Luz da Sala'", advertisement.Name)
	}

	if advertisement.StateTopic != "casa/sala/state" {
		t.Errorf("StateTopic = %s, expected casa/sala/state", advertisement.StateTopic)
	}

	if advertisement.PayloadOn != "true" {
		t.Errorf("PayloadOn = %s, expected 'true'", advertisement.PayloadOn)
	}

	if advertisement.PayloadOff != "false" {
		t.Errorf("PayloadOff = %s, expected 'false'", advertisement.PayloadOff)
	}

	if advertisement.UniqueID != "casa_toggle-sala" {
		t.Errorf("UniqueID = %s, expected casa_toggle-sala", advertisement.UniqueID)
	}

	if len(advertisement.HAAvdvertisementAvailability) != 1 {
		t.Fatalf("expected 1 availability entry, got %d", len(advertisement.HAAvdvertisementAvailability))
	}

	if advertisement.HAAvdvertisementAvailability[0].Topic != "casa/online" {
		t.Errorf("availability topic = %s, expected casa/online", advertisement.HAAvdvertisementAvailability[0].Topic)
	}
}

func TestHAAdvertisementToJson(t *testing.T) {
	advertisement := ConstructToggleAdvertisement("quintal", "Luz do Quintal", "casa/quintal/state")

	jsonStr := advertisement.ToJson()
	if jsonStr == "" {
		t.Fatal("ToJson returned empty string")
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
		t.Fatalf("ToJson produced invalid json: %v", err)
	}

	if decoded["state_topic"] != "casa/quintal/state" {
		t.Errorf("state_topic = %v, expected casa/quintal/state", decoded["state_topic"])
	}
}

func TestAdvertiseHA(t *testing.T) {
	Config.Set("topic_base", "casa")
	client := &MockMQTTClient{connected: true}

	AdvertiseHA(DefaultHouse(), client)

	calls := client.Publishes()
	if len(calls) != 6 {
		t.Fatalf("expected 6 discovery publishes, got %d", len(calls))
	}

	for _, call := range calls {
		if !strings.HasPrefix(call.Topic, "homeassistant/binary_sensor/") {
			t.Errorf("unexpected discovery topic %s", call.Topic)
		}
		if !strings.HasSuffix(call.Topic, "/toggle/config") {
			t.Errorf("unexpected discovery topic %s", call.Topic)
		}
	}
}
