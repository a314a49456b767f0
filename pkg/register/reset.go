package register

var (
	resetClearInterrupt = Bit(0)
	resetClearMinMax    = Bit(1)
	resetClearHistory   = Bit(2)
	resetSystemReset    = Bit(3)
)

// ResetRegister builds a RESET command byte. All bits are self-clearing on
// the device.
type ResetRegister struct {
	// ClearInterrupt clears the interrupt and sets INT to high-Z.
	ClearInterrupt bool

	// ClearMinMax clears the MIN and MAX registers.
	ClearMinMax bool

	// ClearHistory clears the most recent 100 decibel values.
	ClearHistory bool

	// SystemReset performs a soft reset and restores defaults. It is also
	// the only way to wake the sensor from power down.
	SystemReset bool
}

// NewResetRegister returns a RESET value with no command bits set.
func NewResetRegister() ResetRegister {
	return ResetRegister{}
}

// WithClearInterrupt returns r with the clear-interrupt bit set to on.
func (r ResetRegister) WithClearInterrupt(on bool) ResetRegister {
	r.ClearInterrupt = on
	return r
}

// WithClearMinMax returns r with the clear-min/max bit set to on.
func (r ResetRegister) WithClearMinMax(on bool) ResetRegister {
	r.ClearMinMax = on
	return r
}

// WithClearHistory returns r with the clear-history bit set to on.
func (r ResetRegister) WithClearHistory(on bool) ResetRegister {
	r.ClearHistory = on
	return r
}

// WithSystemReset returns r with the system-reset bit set to on.
func (r ResetRegister) WithSystemReset(on bool) ResetRegister {
	r.SystemReset = on
	return r
}

// Encode returns the RESET byte. Reserved bits 4-7 are always zero.
func (r ResetRegister) Encode() uint8 {
	b := ResetDefault
	b = resetClearInterrupt.SetFlag(b, r.ClearInterrupt)
	b = resetClearMinMax.SetFlag(b, r.ClearMinMax)
	b = resetClearHistory.SetFlag(b, r.ClearHistory)
	b = resetSystemReset.SetFlag(b, r.SystemReset)
	return b
}

// DecodeResetCommand splits a RESET byte into its command bits. The driver
// never reads RESET back; this exists for device-side consumers such as the
// simulator.
func DecodeResetCommand(b uint8) ResetRegister {
	return ResetRegister{
		ClearInterrupt: resetClearInterrupt.Flag(b),
		ClearMinMax:    resetClearMinMax.Flag(b),
		ClearHistory:   resetClearHistory.Flag(b),
		SystemReset:    resetSystemReset.Flag(b),
	}
}
