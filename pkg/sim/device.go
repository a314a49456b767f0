package sim

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/pa-spl/spl-go/pkg/register"
)

// DefaultDeviceID is the ID reported by the simulated module.
const DefaultDeviceID uint32 = 0x6F49AC5A

// HistoryLen is the number of readings kept for ClearHistory.
const HistoryLen = 100

// ErrNACK is returned when a transaction targets a different address.
var ErrNACK = errors.New("sim: address not acknowledged")

// Device is a simulated SPL module. It is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	addr     uint16
	external bool
	version  uint8
	id       uint32

	regs    [256]byte
	ptr     uint8
	history []uint8

	minMaxValid bool
	irqPending  bool

	failNext error
	txCount  int
}

// Option configures a Device.
type Option func(*Device)

// WithAddress sets the address the device acknowledges.
func WithAddress(addr uint16) Option {
	return func(d *Device) {
		d.addr = addr
	}
}

// WithExternalMic enables the GAIN register and the line-out bit.
func WithExternalMic() Option {
	return func(d *Device) {
		d.external = true
	}
}

// WithFirmwareVersion sets the VERSION register.
func WithFirmwareVersion(v uint8) Option {
	return func(d *Device) {
		d.version = v
	}
}

// WithDeviceID sets the ID registers.
func WithDeviceID(id uint32) Option {
	return func(d *Device) {
		d.id = id
	}
}

// New creates a simulated module in its power-on state.
func New(opts ...Option) *Device {
	d := &Device{
		addr:    register.DefaultAddress,
		version: register.VersionMEMSLTSASA,
		id:      DefaultDeviceID,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.powerOn()
	return d
}

// powerOn restores register defaults. Caller holds mu or owns d exclusively.
func (d *Device) powerOn() {
	d.regs = [256]byte{}
	d.regs[register.RegVersion] = d.version
	binary.BigEndian.PutUint32(d.regs[register.RegDeviceID3:], d.id)
	d.regs[register.RegControl] = register.ControlDefault
	binary.BigEndian.PutUint16(d.regs[register.RegTavgHigh:], register.TavgDefault)
	d.regs[register.RegReset] = register.ResetDefault
	d.ptr = 0
	d.history = d.history[:0]
	d.minMaxValid = false
	d.irqPending = false
}

// Address returns the address the device acknowledges.
func (d *Device) Address() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addr
}

// ExternalMic reports whether the GAIN register is present.
func (d *Device) ExternalMic() bool {
	return d.external
}

// Tx performs one bus transaction. The first written byte sets the register
// pointer; further written bytes are stored with auto-increment, then len(r)
// bytes are read from the pointer with auto-increment.
func (d *Device) Tx(addr uint16, w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.txCount++
	if err := d.failNext; err != nil {
		d.failNext = nil
		return err
	}
	if addr != d.addr {
		return ErrNACK
	}

	if len(w) > 0 {
		d.ptr = w[0]
		for _, b := range w[1:] {
			d.store(d.ptr, b)
			d.ptr++
		}
	}
	for i := range r {
		r[i] = d.load(d.ptr)
		d.ptr++
	}
	return nil
}

func (d *Device) writable(reg uint8) bool {
	switch reg {
	case register.RegScratch, register.RegControl, register.RegTavgHigh, register.RegTavgLow, register.RegReset:
		return true
	case register.RegGain:
		return d.external
	}
	return false
}

func (d *Device) store(reg, b uint8) {
	if !d.writable(reg) {
		return
	}
	if reg == register.RegReset {
		d.execReset(register.DecodeResetCommand(b))
		return
	}
	d.regs[reg] = b
}

func (d *Device) load(reg uint8) uint8 {
	if reg == register.RegGain && !d.external {
		return 0
	}
	return d.regs[reg]
}

// execReset applies RESET command bits. They clear themselves, so RESET
// always reads back as zero.
func (d *Device) execReset(cmd register.ResetRegister) {
	if cmd.SystemReset {
		d.powerOn()
		return
	}
	if cmd.ClearInterrupt {
		d.irqPending = false
	}
	if cmd.ClearMinMax {
		d.regs[register.RegMin] = 0
		d.regs[register.RegMax] = 0
		d.minMaxValid = false
	}
	if cmd.ClearHistory {
		d.history = d.history[:0]
	}
}

func (d *Device) control() register.ControlRegister {
	layout := register.InternalMicLayout
	if d.external {
		layout = register.ExternalMicLayout
	}
	return layout.Decode(d.regs[register.RegControl])
}

// SetLevel injects a new averaged reading in dB. It updates DECIBEL, MIN and
// MAX and returns false without effect while the sensor is powered down.
func (d *Device) SetLevel(db uint8) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctrl := d.control()
	if ctrl.PowerDown {
		return false
	}

	d.regs[register.RegDecibel] = db
	if len(d.history) == HistoryLen {
		d.history = append(d.history[:0], d.history[1:]...)
	}
	d.history = append(d.history, db)

	newExtreme := false
	switch {
	case !d.minMaxValid:
		d.regs[register.RegMin] = db
		d.regs[register.RegMax] = db
		d.minMaxValid = true
	case db < d.regs[register.RegMin]:
		d.regs[register.RegMin] = db
		newExtreme = true
	case db > d.regs[register.RegMax]:
		d.regs[register.RegMax] = db
		newExtreme = true
	}
	if newExtreme && ctrl.InterruptEnable {
		d.irqPending = true
	}
	return true
}

// Register returns a register value without a bus transaction.
func (d *Device) Register(reg uint8) uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load(reg)
}

// PoweredDown reports whether CONTROL has the power-down bit set.
func (d *Device) PoweredDown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.control().PowerDown
}

// InterruptPending reports whether a new MIN or MAX raised the interrupt and
// it has not been cleared.
func (d *Device) InterruptPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.irqPending
}

// History returns the stored readings, oldest first.
func (d *Device) History() []uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint8(nil), d.history...)
}

// FailNext makes the next transaction return err without side effects.
func (d *Device) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failNext = err
}

// Transactions returns the number of transactions seen, including failed ones.
func (d *Device) Transactions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txCount
}
