package hw

import (
	"errors"
	"time"
)

// ErrEchoTimeout reports that the echo line never produced a complete pulse
// inside the wait budget. Callers treat it as a sensor fault, never as a
// zero distance.
var ErrEchoTimeout = errors.New("echo pulse timed out")

// Ranger drives an HC-SR04 style ultrasonic sensor: trigger pulse, echo
// rises, echo falls, pulse width over 58 gives centimeters. Both waits are
// bounded so a disconnected sensor cannot stall the control loop.
type Ranger struct {
	pins    PinIO
	timeout time.Duration
	sleep   time.Duration
}

func NewRanger(pins PinIO, timeout time.Duration) *Ranger {
	return &Ranger{pins: pins, timeout: timeout, sleep: 5 * time.Microsecond}
}

// MeasureDistanceCM takes one distance sample.
func (r *Ranger) MeasureDistanceCM() (float64, error) {
	r.pins.TriggerPulse()

	if !r.waitEcho(true) {
		return 0, ErrEchoTimeout
	}
	start := time.Now()

	if !r.waitEcho(false) {
		return 0, ErrEchoTimeout
	}
	pulse := time.Since(start)

	return float64(pulse.Microseconds()) / 58.0, nil
}

// waitEcho polls the echo line until it reaches the wanted level or the
// budget expires.
func (r *Ranger) waitEcho(high bool) bool {
	deadline := time.Now().Add(r.timeout)
	for r.pins.EchoHigh() != high {
		if time.Now().After(deadline) {
			return false
		}
		if r.sleep > 0 {
			time.Sleep(r.sleep)
		}
	}
	return true
}
