package main

import (
	"sync"

	"github.com/elijahnyp/casa_controller/hw"
	"github.com/elijahnyp/casa_controller/util"
)

// DistanceSensor is the one-sample ranging surface PresenceController
// consumes. hw.Ranger satisfies it.
type DistanceSensor interface {
	MeasureDistanceCM() (float64, error)
}

// PresenceController derives the front light decision from fresh sensor
// samples, one per tick: on only while something is close and it is dark.
// No debounce, no hysteresis. A ranging fault keeps the previous decision
// instead of stalling or flapping the light.
type PresenceController struct {
	ranger    DistanceSensor
	pins      hw.PinIO
	threshold float64
	mu        sync.Mutex // guards active, read from handler goroutines
	active    bool
	faults    int
}

func NewPresenceController(ranger DistanceSensor, pins hw.PinIO, thresholdCM float64) *PresenceController {
	return &PresenceController{ranger: ranger, pins: pins, threshold: thresholdCM}
}

// Evaluate advances the state machine with one sample and reports the
// decision.
func (p *PresenceController) Evaluate(distanceCM float64, dark bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = distanceCM < p.threshold && dark
	return p.active
}

// Active reports the current decision without sampling.
func (p *PresenceController) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Tick takes a fresh sample and drives the front lights. Sensor faults are
// local: the decision is held and the request path never sees them.
func (p *PresenceController) Tick() {
	dist, err := p.ranger.MeasureDistanceCM()
	if err != nil {
		p.faults++
		if p.faults == 1 || p.faults%100 == 0 {
			util.Logger.Warn().Msgf("ranging fault (%d so far), holding front light state: %v", p.faults, err)
		}
	} else {
		p.faults = 0
		p.Evaluate(dist, p.pins.AmbientDark())
	}
	p.pins.SetFrontLights(p.Active())
}
