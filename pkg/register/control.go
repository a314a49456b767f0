package register

import (
	"fmt"
	"strings"
)

// FilterSetting selects the frequency weighting applied to SPL readings.
type FilterSetting uint8

const (
	FilterNone       FilterSetting = 0b00
	FilterAWeighting FilterSetting = 0b01
	FilterCWeighting FilterSetting = 0b10
)

// FilterSettingFromBits decodes the two filter bits of CONTROL. The unused
// pattern 0b11 decodes to FilterCWeighting.
func FilterSettingFromBits(bits uint8) FilterSetting {
	switch bits & 0b11 {
	case 0b00:
		return FilterNone
	case 0b01:
		return FilterAWeighting
	default:
		return FilterCWeighting
	}
}

// Bits returns the two-bit encoding of the setting.
func (f FilterSetting) Bits() uint8 {
	return uint8(f) & 0b11
}

// String returns the filter name.
func (f FilterSetting) String() string {
	switch f {
	case FilterNone:
		return "NONE"
	case FilterAWeighting:
		return "A-WEIGHTING"
	case FilterCWeighting:
		return "C-WEIGHTING"
	default:
		return "UNKNOWN"
	}
}

// ParseFilterSetting parses a filter name (case-insensitive). Accepted forms
// are "none", "a", "a-weighting", "c" and "c-weighting".
func ParseFilterSetting(s string) (FilterSetting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return FilterNone, nil
	case "a", "a-weighting":
		return FilterAWeighting, nil
	case "c", "c-weighting":
		return FilterCWeighting, nil
	default:
		return 0, fmt.Errorf("invalid filter setting %q (must be none, a or c)", s)
	}
}

// ControlRegister is the decoded CONTROL register.
//
// Values obtained from ControlLayout.Decode carry the reserved bits of the
// raw byte and write them back unchanged on Encode. A zero ControlRegister
// encodes reserved bits as zero.
type ControlRegister struct {
	// PowerDown puts the sensor into sleep. A system reset wakes it.
	PowerDown bool

	// Filter is the frequency weighting.
	Filter FilterSetting

	// InterruptEnable enables the INT pin.
	InterruptEnable bool

	// InterruptType selects min/max level interrupts.
	InterruptType bool

	// EnableLineOut enables the analog line output. Only modules with an
	// external microphone have this bit; other layouts ignore it.
	EnableLineOut bool

	reserved uint8
}

// SetFilter sets the frequency weighting.
func (r *ControlRegister) SetFilter(f FilterSetting) {
	r.Filter = f
}

// Reserved returns the reserved bits captured at decode time, in place.
func (r ControlRegister) Reserved() uint8 {
	return r.reserved
}

// ControlLayout is the bit layout of CONTROL for one hardware variant.
type ControlLayout struct {
	name            string
	powerDown       Field
	filter          Field
	interruptEnable Field
	interruptType   Field
	lineOut         Field // zero width when absent
}

var (
	// InternalMicLayout is the CONTROL layout of the standard module.
	// Bits 5-7 are reserved.
	InternalMicLayout = ControlLayout{
		name:            "internal",
		powerDown:       Bit(0),
		filter:          Field{Shift: 1, Width: 2},
		interruptEnable: Bit(3),
		interruptType:   Bit(4),
	}

	// ExternalMicLayout is the CONTROL layout of modules with an external
	// microphone. Bit 5 enables line out; bits 6-7 are reserved.
	ExternalMicLayout = ControlLayout{
		name:            "external",
		powerDown:       Bit(0),
		filter:          Field{Shift: 1, Width: 2},
		interruptEnable: Bit(3),
		interruptType:   Bit(4),
		lineOut:         Bit(5),
	}
)

// Name returns "internal" or "external".
func (l ControlLayout) Name() string {
	return l.name
}

// HasLineOut reports whether the layout carries the line-out enable bit.
func (l ControlLayout) HasLineOut() bool {
	return l.lineOut.Width > 0
}

// fieldMask covers every bit the layout assigns a meaning to.
func (l ControlLayout) fieldMask() uint8 {
	return l.powerDown.Mask() | l.filter.Mask() | l.interruptEnable.Mask() |
		l.interruptType.Mask() | l.lineOut.Mask()
}

// Decode converts a raw CONTROL byte into a ControlRegister.
func (l ControlLayout) Decode(b uint8) ControlRegister {
	r := ControlRegister{
		PowerDown:       l.powerDown.Flag(b),
		Filter:          FilterSettingFromBits(l.filter.Get(b)),
		InterruptEnable: l.interruptEnable.Flag(b),
		InterruptType:   l.interruptType.Flag(b),
		reserved:        b &^ l.fieldMask(),
	}
	if l.HasLineOut() {
		r.EnableLineOut = l.lineOut.Flag(b)
	}
	return r
}

// Encode converts a ControlRegister into the raw CONTROL byte.
func (l ControlLayout) Encode(r ControlRegister) uint8 {
	b := r.reserved &^ l.fieldMask()
	b = l.powerDown.SetFlag(b, r.PowerDown)
	b = l.filter.Set(b, r.Filter.Bits())
	b = l.interruptEnable.SetFlag(b, r.InterruptEnable)
	b = l.interruptType.SetFlag(b, r.InterruptType)
	if l.HasLineOut() {
		b = l.lineOut.SetFlag(b, r.EnableLineOut)
	}
	return b
}

// String renders the register for logs and the CLI.
func (r ControlRegister) String() string {
	return fmt.Sprintf("power_down=%t filter=%s interrupt_enable=%t interrupt_type=%t line_out=%t",
		r.PowerDown, r.Filter, r.InterruptEnable, r.InterruptType, r.EnableLineOut)
}
