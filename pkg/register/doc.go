// Package register describes the register file of the PCB Artists SPL module.
//
// The package has no bus dependency. It holds the fixed register addresses,
// the documented reset defaults, and pure codecs that convert between raw
// register bytes and structured values.
//
// # Bitfield Registers
//
// CONTROL and RESET are packed bitfields. Each field is an explicit
// shift/width pair (see Field), so encoding and decoding are plain mask
// operations:
//
//	ctrl := register.InternalMicLayout.Decode(0x02)
//	ctrl.SetFilter(register.FilterCWeighting)
//	raw := register.InternalMicLayout.Encode(ctrl) // 0x04
//
// # Microphone Variants
//
// Modules fitted with an external microphone use a different CONTROL layout
// (bit 5 becomes the line-out enable) and expose the GAIN register. The two
// layouts are named values, InternalMicLayout and ExternalMicLayout, chosen
// once when the driver is constructed.
//
// # Self-Clearing Commands
//
// RESET is write-only in practice. Every bit is a command that the device
// clears after acting on it, so the driver never reads RESET back. Only a
// device model needs DecodeResetCommand, to act on a written byte.
package register
