package spl

import (
	"errors"
	"fmt"

	"github.com/pa-spl/spl-go/pkg/register"
)

// Driver errors.
var (
	// ErrBusTransaction is matched by every error the bus reported.
	// Use errors.As with *BusError to get the register and cause.
	ErrBusTransaction = errors.New("spl: bus transaction failed")

	// ErrNoBusInstance is returned when the bus was already released.
	ErrNoBusInstance = errors.New("spl: no bus instance")

	// ErrBufferOverflow is returned when a write payload exceeds MaxWritePayload.
	ErrBufferOverflow = errors.New("spl: write payload too large")
)

// BusError wraps an error returned by Bus.Tx.
type BusError struct {
	// Op is "read" or "write".
	Op string

	// Register is the first register address of the exchange.
	Register uint8

	// Err is the error returned by the bus, unmodified.
	Err error
}

// Error implements the error interface.
func (e *BusError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrBusTransaction, e.Op, registerLabel(e.Register), e.Err)
}

// Unwrap returns the bus error.
func (e *BusError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrBusTransaction.
func (e *BusError) Is(target error) bool {
	return target == ErrBusTransaction
}

func registerLabel(reg uint8) string {
	if name := register.Name(reg); name != "" {
		return fmt.Sprintf("%s (0x%02X)", name, reg)
	}
	return fmt.Sprintf("0x%02X", reg)
}
