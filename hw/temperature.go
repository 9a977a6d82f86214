package hw

// ADC reads one raw sample from the temperature channel. The hardware
// implementation owns channel selection and raw-to-voltage mechanics.
type ADC interface {
	ReadRaw() (uint16, error)
}

// Celsius converts a raw 12-bit reading from the on-die sensor. Higher raw
// values mean lower temperatures.
func Celsius(raw uint16) float64 {
	const conversionFactor = 3.3 / 4096
	return 27.0 - ((float64(raw)*conversionFactor)-0.706)/0.001721
}

// TemperatureReader samples the ADC on demand. Readings are never cached;
// every call hits the hardware.
type TemperatureReader struct {
	adc ADC
}

func NewTemperatureReader(adc ADC) *TemperatureReader {
	return &TemperatureReader{adc: adc}
}

func (t *TemperatureReader) ReadC() (float64, error) {
	raw, err := t.adc.ReadRaw()
	if err != nil {
		return 0, err
	}
	return Celsius(raw), nil
}

// FixedADC returns a constant raw sample. Used when no real ADC is wired
// and by tests.
type FixedADC struct {
	Raw uint16
	Err error
}

func (f FixedADC) ReadRaw() (uint16, error) {
	return f.Raw, f.Err
}
