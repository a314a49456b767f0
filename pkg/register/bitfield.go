package register

// Field locates a group of bits inside a register byte.
type Field struct {
	Shift uint8
	Width uint8
}

// Bit returns a one-bit field at position n.
func Bit(n uint8) Field {
	return Field{Shift: n, Width: 1}
}

// Mask returns the in-place mask of the field. A zero-width field has an
// empty mask.
func (f Field) Mask() uint8 {
	if f.Width == 0 {
		return 0
	}
	return uint8((1<<f.Width)-1) << f.Shift
}

// Get extracts the field value from b, right-aligned.
func (f Field) Get(b uint8) uint8 {
	return (b & f.Mask()) >> f.Shift
}

// Set returns b with the field replaced by v. Bits of v that do not fit the
// field are dropped.
func (f Field) Set(b, v uint8) uint8 {
	m := f.Mask()
	return (b &^ m) | ((v << f.Shift) & m)
}

// Flag reports whether a one-bit field is set.
func (f Field) Flag(b uint8) bool {
	return f.Get(b) != 0
}

// SetFlag returns b with a one-bit field set or cleared.
func (f Field) SetFlag(b uint8, on bool) uint8 {
	if on {
		return f.Set(b, 1)
	}
	return f.Set(b, 0)
}
