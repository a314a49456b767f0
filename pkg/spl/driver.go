package spl

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pa-spl/spl-go/pkg/log"
	"github.com/pa-spl/spl-go/pkg/register"
)

// Driver exposes the registers of one SPL module.
//
// A Driver is not safe for concurrent use.
type Driver struct {
	bus       Bus // nil once released
	addr      uint16
	layout    register.ControlLayout
	logger    log.Logger
	sessionID string
}

// New creates a driver for a module with the built-in microphone. The driver
// owns bus until Release is called.
func New(bus Bus, opts ...Option) *Driver {
	return newDriver(bus, register.InternalMicLayout, opts)
}

func newDriver(bus Bus, layout register.ControlLayout, opts []Option) *Driver {
	d := &Driver{
		bus:    bus,
		addr:   register.DefaultAddress,
		layout: layout,
		logger: log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sessionID == "" {
		d.sessionID = uuid.NewString()
	}

	event := d.newEvent(log.CategoryLifecycle)
	event.Lifecycle = &log.LifecycleEvent{Kind: log.LifecycleAttached, Variant: layout.Name()}
	d.logger.Log(event)

	return d
}

// Address returns the device address in use.
func (d *Driver) Address() uint16 {
	return d.addr
}

// SetAddress changes the device address used by subsequent transactions.
// No bus traffic is generated.
func (d *Driver) SetAddress(addr uint16) {
	old := d.addr
	d.addr = addr

	event := d.newEvent(log.CategoryLifecycle)
	event.Lifecycle = &log.LifecycleEvent{Kind: log.LifecycleAddressChanged, OldAddress: old, NewAddress: addr}
	d.logger.Log(event)
}

// Layout returns the CONTROL register layout of this module variant.
func (d *Driver) Layout() register.ControlLayout {
	return d.layout
}

// SessionID returns the ID stamped on trace events.
func (d *Driver) SessionID() string {
	return d.sessionID
}

// Released reports whether the bus has been handed back.
func (d *Driver) Released() bool {
	return d.bus == nil
}

// Release returns the bus to the caller. The driver is unusable afterwards.
func (d *Driver) Release() (Bus, error) {
	if d.bus == nil {
		event := d.newEvent(log.CategoryError)
		event.Error = &log.ErrorEventData{
			Kind:    log.ErrorKindNoBusInstance,
			Message: ErrNoBusInstance.Error(),
			Context: "release",
		}
		d.logger.Log(event)
		return nil, ErrNoBusInstance
	}

	bus := d.bus
	d.bus = nil

	event := d.newEvent(log.CategoryLifecycle)
	event.Lifecycle = &log.LifecycleEvent{Kind: log.LifecycleReleased, Variant: d.layout.Name()}
	d.logger.Log(event)

	return bus, nil
}

// GetFirmwareVersion reads VERSION.
func (d *Driver) GetFirmwareVersion() (uint8, error) {
	return d.readByte(register.RegVersion)
}

// GetDeviceID reads the four ID registers as one big-endian value.
func (d *Driver) GetDeviceID() (uint32, error) {
	var buf [register.DeviceIDLen]byte
	if err := d.readBytes(register.RegDeviceID3, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// GetScratch reads SCRATCH.
func (d *Driver) GetScratch() (uint8, error) {
	return d.readByte(register.RegScratch)
}

// SetScratch writes SCRATCH. The module stores the value unchanged, which
// makes it useful for bus checks.
func (d *Driver) SetScratch(value uint8) error {
	return d.writeByte(register.RegScratch, value)
}

// GetControlRegister reads and decodes CONTROL.
func (d *Driver) GetControlRegister() (register.ControlRegister, error) {
	b, err := d.readByte(register.RegControl)
	if err != nil {
		return register.ControlRegister{}, err
	}
	return d.layout.Decode(b), nil
}

// SetControlRegister encodes and writes CONTROL, replacing every bit.
// Reserved bits are written as decoded; pass a value obtained from
// GetControlRegister to keep them.
func (d *Driver) SetControlRegister(r register.ControlRegister) error {
	return d.writeByte(register.RegControl, d.layout.Encode(r))
}

// Reset issues a system reset. All registers return to their defaults and a
// powered-down sensor wakes up.
func (d *Driver) Reset() error {
	return d.writeReset(register.NewResetRegister().WithSystemReset(true))
}

// ClearInterrupt clears a pending interrupt and releases the INT pin.
func (d *Driver) ClearInterrupt() error {
	return d.writeReset(register.NewResetRegister().WithClearInterrupt(true))
}

// ClearMinMax clears MIN and MAX.
func (d *Driver) ClearMinMax() error {
	return d.writeReset(register.NewResetRegister().WithClearMinMax(true))
}

// ClearHistory clears the stored history of decibel values.
func (d *Driver) ClearHistory() error {
	return d.writeReset(register.NewResetRegister().WithClearHistory(true))
}

func (d *Driver) writeReset(r register.ResetRegister) error {
	return d.writeByte(register.RegReset, r.Encode())
}

// GetAvgTime reads the averaging time in milliseconds.
func (d *Driver) GetAvgTime() (uint16, error) {
	var buf [2]byte
	if err := d.readBytes(register.RegTavgHigh, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// SetAvgTime writes the averaging time in milliseconds. The module documents
// 125 ms (fast) and 1000 ms (slow); other values are written as given.
func (d *Driver) SetAvgTime(ms uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], ms)
	return d.writeNBytes(register.RegTavgHigh, buf[:])
}

// GetLatestDecibel reads the most recent SPL value in dB.
func (d *Driver) GetLatestDecibel() (uint8, error) {
	return d.readByte(register.RegDecibel)
}

// GetMinDecibel reads the lowest SPL value since the last min/max clear.
func (d *Driver) GetMinDecibel() (uint8, error) {
	return d.readByte(register.RegMin)
}

// GetMaxDecibel reads the highest SPL value since the last min/max clear.
func (d *Driver) GetMaxDecibel() (uint8, error) {
	return d.readByte(register.RegMax)
}
