package main

import (
	"strconv"
	"sync"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

// StatePublisher mirrors the device state onto mqtt for off-board
// consumers (home assistant, panels elsewhere in the house). Output only:
// nothing received over mqtt mutates the store.
type StatePublisher struct {
	house util.HouseModel
	mu    sync.Mutex // guards last, reset from the paho connect goroutine
	last  *state.Snapshot
}

func NewStatePublisher(house util.HouseModel) *StatePublisher {
	p := &StatePublisher{house: house}
	util.RegisterMQTTConnectHook("haadvertise", func(client MQTT.Client) {
		util.AdvertiseHA(p.house, client)
		p.reset()
	})
	return p
}

// reset forgets the published state so the next Publish resends
// everything. Runs on the paho connect goroutine after a reconnect.
func (p *StatePublisher) reset() {
	p.mu.Lock()
	p.last = nil
	p.mu.Unlock()
}

// Publish pushes every toggle that changed since the last call. Retained
// so late subscribers see current state.
func (p *StatePublisher) Publish(snap state.Snapshot) {
	if util.Client == nil || !util.Client.IsConnected() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, dev := range p.house.Devices {
		on := snap.On(state.Device(dev.Key))
		if p.last != nil && p.last.On(state.Device(dev.Key)) == on {
			continue
		}
		topic := p.house.StateTopic(dev.Key)
		util.Client.Publish(topic, 0, true, strconv.FormatBool(on))
	}
	if p.last == nil || p.last.Indicator != snap.Indicator {
		topic := util.Config.GetString("topic_base") + "/indicator"
		util.Client.Publish(topic, 0, true, strconv.FormatBool(snap.Indicator))
	}
	p.last = &snap
}
