package hw

import (
	"time"

	rpio "github.com/stianeikeland/go-rpio/v4"

	"github.com/elijahnyp/casa_controller/util"
)

// PinIO is the narrow digital I/O surface the controller consumes. Pin
// numbering, pull configuration and the board wiring live behind it.
type PinIO interface {
	TriggerPulse()
	EchoHigh() bool
	AmbientDark() bool
	SetFrontLights(on bool)
	SetIndicator(on bool)
}

type rpioPins struct {
	trig      rpio.Pin
	echo      rpio.Pin
	ldr       rpio.Pin
	front     []rpio.Pin
	indicator rpio.Pin
}

// OpenPins maps the configured pins through go-rpio. When the gpio memory
// range can't be opened (desktop runs, missing permissions) it falls back to
// fake pins so the rest of the controller keeps working.
func OpenPins() PinIO {
	if err := rpio.Open(); err != nil {
		util.Logger.Warn().Msgf("unable to open gpio, using fake pins: %v", err)
		return NewFakePins()
	}

	p := &rpioPins{
		trig:      rpio.Pin(util.Config.GetInt("trig_pin")),
		echo:      rpio.Pin(util.Config.GetInt("echo_pin")),
		ldr:       rpio.Pin(util.Config.GetInt("ldr_pin")),
		indicator: rpio.Pin(util.Config.GetInt("indicator_pin")),
	}
	for _, n := range util.Config.GetIntSlice("front_light_pins") {
		p.front = append(p.front, rpio.Pin(n))
	}

	p.trig.Output()
	p.trig.Low()
	p.echo.Input()
	p.ldr.Input()
	p.indicator.Output()
	p.indicator.Low()
	for _, fp := range p.front {
		fp.Output()
		fp.Low()
	}
	return p
}

func (p *rpioPins) TriggerPulse() {
	p.trig.High()
	time.Sleep(10 * time.Microsecond)
	p.trig.Low()
}

func (p *rpioPins) EchoHigh() bool {
	return p.echo.Read() == rpio.High
}

// AmbientDark reads the ldr line. The divider pulls the line low in the
// dark, matching the original board.
func (p *rpioPins) AmbientDark() bool {
	return p.ldr.Read() == rpio.Low
}

func (p *rpioPins) SetFrontLights(on bool) {
	for _, fp := range p.front {
		if on {
			fp.High()
		} else {
			fp.Low()
		}
	}
}

func (p *rpioPins) SetIndicator(on bool) {
	if on {
		p.indicator.High()
	} else {
		p.indicator.Low()
	}
}

// FakePins is the software stand-in used when gpio is unavailable and by
// tests. Echo behavior is scripted through EchoScript.
type FakePins struct {
	Dark       bool
	FrontOn    bool
	Indicator  bool
	Triggers   int
	EchoScript func(callCount int) bool

	echoCalls int
}

func NewFakePins() *FakePins {
	return &FakePins{}
}

func (f *FakePins) TriggerPulse() {
	f.Triggers++
	f.echoCalls = 0
}

func (f *FakePins) EchoHigh() bool {
	if f.EchoScript == nil {
		return false
	}
	v := f.EchoScript(f.echoCalls)
	f.echoCalls++
	return v
}

func (f *FakePins) AmbientDark() bool { return f.Dark }

func (f *FakePins) SetFrontLights(on bool) { f.FrontOn = on }

func (f *FakePins) SetIndicator(on bool) { f.Indicator = on }
