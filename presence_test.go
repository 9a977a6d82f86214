package main

import (
	"sync"
	"testing"
	"time"

	"github.com/elijahnyp/casa_controller/hw"
)

type fakeRanger struct {
	dist float64
	err  error
}

func (f *fakeRanger) MeasureDistanceCM() (float64, error) {
	return f.dist, f.err
}

func TestPresenceDecision(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		dark     bool
		expected bool
	}{
		{"Close and dark", 10.0, true, true},
		{"Far and dark", 20.0, true, false},
		{"Close and bright", 10.0, false, false},
		{"Far and bright", 20.0, false, false},
		{"At threshold", 15.0, true, false},
		{"Just inside threshold", 14.9, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPresenceController(&fakeRanger{}, hw.NewFakePins(), 15.0)
			if got := p.Evaluate(tt.distance, tt.dark); got != tt.expected {
				t.Errorf("Evaluate(%f, %v) = %v, expected %v", tt.distance, tt.dark, got, tt.expected)
			}
		})
	}
}

func TestPresenceTickDrivesFrontLights(t *testing.T) {
	pins := hw.NewFakePins()
	pins.Dark = true
	ranger := &fakeRanger{dist: 10.0}

	p := NewPresenceController(ranger, pins, 15.0)
	p.Tick()
	if !pins.FrontOn {
		t.Error("front lights should be on, close and dark")
	}

	ranger.dist = 50.0
	p.Tick()
	if pins.FrontOn {
		t.Error("front lights should be off once the object moves away")
	}
}

func TestPresenceFaultHoldsDecision(t *testing.T) {
	pins := hw.NewFakePins()
	pins.Dark = true
	ranger := &fakeRanger{dist: 10.0}

	p := NewPresenceController(ranger, pins, 15.0)
	p.Tick()
	if !pins.FrontOn {
		t.Fatal("front lights should be on before the fault")
	}

	// sensor goes away, decision holds instead of dropping to zero
	ranger.err = hw.ErrEchoTimeout
	for i := 0; i < 5; i++ {
		p.Tick()
	}
	if !pins.FrontOn {
		t.Error("fault must hold the last decision, not turn the light off")
	}

	// sensor comes back reporting far away
	ranger.err = nil
	ranger.dist = 100.0
	p.Tick()
	if pins.FrontOn {
		t.Error("recovered sensor should drive the light off again")
	}
}

// Active is read from http handler goroutines while the tick loop keeps
// updating the decision. Run with -race.
func TestPresenceActiveConcurrentWithTick(t *testing.T) {
	pins := hw.NewFakePins()
	pins.Dark = true
	ranger := &fakeRanger{dist: 10.0}
	p := NewPresenceController(ranger, pins, 15.0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			ranger.dist = float64(i % 30)
			p.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			p.Active()
		}
	}()
	wg.Wait()

	ranger.dist = 10.0
	p.Tick()
	if !p.Active() {
		t.Error("decision should settle to on, close and dark")
	}
}

func TestPresenceTickIsBounded(t *testing.T) {
	pins := hw.NewFakePins()
	// echo never answers
	pins.EchoScript = func(n int) bool { return false }
	ranger := hw.NewRanger(pins, 20*time.Millisecond)

	p := NewPresenceController(ranger, pins, 15.0)

	start := time.Now()
	p.Tick()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Tick with dead sensor took %v, loop would stall", elapsed)
	}
}
