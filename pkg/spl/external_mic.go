package spl

import "github.com/pa-spl/spl-go/pkg/register"

// ExternalMicDriver drives a module fitted with an external microphone. It
// adds the GAIN register and decodes CONTROL with ExternalMicLayout.
type ExternalMicDriver struct {
	*Driver
}

// NewExternalMic creates a driver for a module with an external microphone.
func NewExternalMic(bus Bus, opts ...Option) *ExternalMicDriver {
	return &ExternalMicDriver{Driver: newDriver(bus, register.ExternalMicLayout, opts)}
}

// GetGain reads GAIN in steps of 0.5 dB.
func (d *ExternalMicDriver) GetGain() (uint8, error) {
	return d.readByte(register.RegGain)
}

// SetGain writes GAIN. Values above register.MaxGain are written as given.
func (d *ExternalMicDriver) SetGain(value uint8) error {
	return d.writeByte(register.RegGain, value)
}
