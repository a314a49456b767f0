package spl

import (
	"fmt"
	"time"

	"github.com/pa-spl/spl-go/pkg/log"
)

// Bus is a byte-oriented I²C bus.
//
// Tx writes w to the device at addr, then reads len(r) bytes into r, as one
// transaction. Either slice may be empty. The method set matches
// periph.io/x/conn/v3/i2c.Bus, so any periph bus can be used directly.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// MaxWritePayload is the largest number of data bytes, excluding the register
// address, that a single write may carry.
const MaxWritePayload = 2

// readByte reads one register.
func (d *Driver) readByte(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := d.readBytes(reg, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// readBytes reads len(buf) consecutive registers starting at start. The
// device auto-increments the register pointer.
func (d *Driver) readBytes(start uint8, buf []byte) error {
	if d.bus == nil {
		d.logRejected(log.OpRead, start, len(buf), log.ErrorKindNoBusInstance, ErrNoBusInstance)
		return ErrNoBusInstance
	}

	began := time.Now()
	err := d.bus.Tx(d.addr, []byte{start}, buf)
	elapsed := time.Since(began)

	if err != nil {
		d.logTransaction(log.OpRead, start, nil, len(buf), elapsed, err)
		return &BusError{Op: "read", Register: start, Err: err}
	}
	d.logTransaction(log.OpRead, start, buf, len(buf), elapsed, nil)
	return nil
}

// writeByte writes one register.
func (d *Driver) writeByte(reg, value uint8) error {
	return d.writeNBytes(reg, []byte{value})
}

// writeNBytes writes values to consecutive registers starting at reg.
func (d *Driver) writeNBytes(reg uint8, values []byte) error {
	if len(values) > MaxWritePayload {
		err := fmt.Errorf("%w: %d bytes, max %d", ErrBufferOverflow, len(values), MaxWritePayload)
		d.logRejected(log.OpWrite, reg, len(values), log.ErrorKindBufferOverflow, err)
		return err
	}
	if d.bus == nil {
		d.logRejected(log.OpWrite, reg, len(values), log.ErrorKindNoBusInstance, ErrNoBusInstance)
		return ErrNoBusInstance
	}

	w := make([]byte, 0, 1+len(values))
	w = append(w, reg)
	w = append(w, values...)

	began := time.Now()
	err := d.bus.Tx(d.addr, w, nil)
	elapsed := time.Since(began)

	d.logTransaction(log.OpWrite, reg, values, len(values), elapsed, err)
	if err != nil {
		return &BusError{Op: "write", Register: reg, Err: err}
	}
	return nil
}

// logTransaction records a bus exchange. A non-nil err turns the event into
// an error event that still carries the transaction.
func (d *Driver) logTransaction(op log.Op, reg uint8, data []byte, length int, elapsed time.Duration, err error) {
	if !log.Enabled(d.logger) {
		return
	}
	event := d.newEvent(log.CategoryTransaction)
	event.Transaction = &log.TransactionEvent{
		Op:       op,
		Register: reg,
		Data:     append([]byte(nil), data...),
		Length:   length,
		Duration: elapsed,
	}
	if err != nil {
		event.Category = log.CategoryError
		event.Error = &log.ErrorEventData{
			Kind:    log.ErrorKindBus,
			Message: err.Error(),
			Context: op.String() + " " + registerLabel(reg),
		}
	}
	d.logger.Log(event)
}

// logRejected records an operation refused before reaching the bus.
func (d *Driver) logRejected(op log.Op, reg uint8, length int, kind log.ErrorKind, err error) {
	if !log.Enabled(d.logger) {
		return
	}
	event := d.newEvent(log.CategoryError)
	event.Transaction = &log.TransactionEvent{Op: op, Register: reg, Length: length}
	event.Error = &log.ErrorEventData{
		Kind:    kind,
		Message: err.Error(),
		Context: op.String() + " " + registerLabel(reg),
	}
	d.logger.Log(event)
}

func (d *Driver) newEvent(category log.Category) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: d.sessionID,
		Address:   d.addr,
		Category:  category,
	}
}
