package log

import "time"

// Event represents one trace record emitted by the driver.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the driver instance that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Address is the 7-bit device address in effect.
	Address uint16 `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload. Transaction and Error may both be set for a
	// failed transaction.
	Transaction *TransactionEvent `cbor:"5,keyasint,omitempty"`
	Lifecycle   *LifecycleEvent   `cbor:"6,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"7,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTransaction indicates a completed bus transaction.
	CategoryTransaction Category = 0
	// CategoryLifecycle indicates a change of the bus handle or address.
	CategoryLifecycle Category = 1
	// CategoryError indicates a failed or rejected operation.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransaction:
		return "TRANSACTION"
	case CategoryLifecycle:
		return "LIFECYCLE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Op is the kind of register access.
type Op uint8

const (
	// OpRead is a write-then-read exchange (register address, then data in).
	OpRead Op = 0
	// OpWrite is a plain write (register address followed by data).
	OpWrite Op = 1
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// TransactionEvent captures one register exchange.
type TransactionEvent struct {
	// Op is the access kind.
	Op Op `cbor:"1,keyasint"`

	// Register is the first register address of the exchange.
	Register uint8 `cbor:"2,keyasint"`

	// Data holds the bytes written after the register address (writes) or
	// the bytes received (reads). Empty for failed reads.
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Length is the number of data bytes requested or sent.
	Length int `cbor:"4,keyasint"`

	// Duration is how long the bus call took. Stored as nanoseconds.
	Duration time.Duration `cbor:"5,keyasint,omitempty"`
}

// LifecycleEvent captures changes to the driver's bus handle or address.
type LifecycleEvent struct {
	// Kind of change.
	Kind LifecycleKind `cbor:"1,keyasint"`

	// OldAddress is the previous device address (address changes only).
	OldAddress uint16 `cbor:"2,keyasint,omitempty"`

	// NewAddress is the new device address (address changes only).
	NewAddress uint16 `cbor:"3,keyasint,omitempty"`

	// Variant names the register layout in use ("internal" or "external").
	Variant string `cbor:"4,keyasint,omitempty"`
}

// LifecycleKind indicates what changed.
type LifecycleKind uint8

const (
	// LifecycleAttached indicates a driver took ownership of a bus.
	LifecycleAttached LifecycleKind = 0
	// LifecycleAddressChanged indicates the device address was reconfigured.
	LifecycleAddressChanged LifecycleKind = 1
	// LifecycleReleased indicates the bus was handed back to the caller.
	LifecycleReleased LifecycleKind = 2
)

// String returns the lifecycle kind name.
func (k LifecycleKind) String() string {
	switch k {
	case LifecycleAttached:
		return "ATTACHED"
	case LifecycleAddressChanged:
		return "ADDRESS_CHANGED"
	case LifecycleReleased:
		return "RELEASED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures a failed or rejected operation.
type ErrorEventData struct {
	// Kind classifies the failure.
	Kind ErrorKind `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}

// ErrorKind classifies driver failures.
type ErrorKind uint8

const (
	// ErrorKindBus indicates the bus reported an error.
	ErrorKindBus ErrorKind = 0
	// ErrorKindNoBusInstance indicates use of a released bus handle.
	ErrorKindNoBusInstance ErrorKind = 1
	// ErrorKindBufferOverflow indicates an oversized write payload.
	ErrorKindBufferOverflow ErrorKind = 2
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindBus:
		return "BUS"
	case ErrorKindNoBusInstance:
		return "NO_BUS_INSTANCE"
	case ErrorKindBufferOverflow:
		return "BUFFER_OVERFLOW"
	default:
		return "UNKNOWN"
	}
}
