// Package spl drives the PCB Artists SPL (sound pressure level) module over
// an I²C bus.
//
// A Driver takes exclusive ownership of a Bus and maps every register of the
// module to a typed accessor. Each accessor performs exactly one bus
// transaction and returns the outcome unmodified: there is no retry, no
// caching and no arbitration.
//
// # Usage
//
//	dev := spl.New(bus)
//	version, err := dev.GetFirmwareVersion()
//	if err != nil {
//	    return err
//	}
//	db, err := dev.GetLatestDecibel()
//
// Modules with an external microphone use NewExternalMic, which adds the GAIN
// register and the line-out control bit:
//
//	dev := spl.NewExternalMic(bus, spl.WithAddress(0x49))
//	err := dev.SetGain(40)
//
// # Bus ownership
//
// Release hands the bus back to the caller. Afterwards every register
// operation, and a second Release, fails with ErrNoBusInstance.
//
// # Tracing
//
// WithLogger attaches a log.Logger that receives one event per transaction,
// including failed and rejected ones. See package log.
package spl
