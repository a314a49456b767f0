// Package log provides structured bus transaction logging for the SPL driver.
//
// This package defines the Logger interface and Event types for capturing
// every register exchange the driver performs. It is separate from
// operational logging (slog): the transaction trace is a complete
// machine-readable record of what went over the bus, useful when bringing up
// new hardware or chasing intermittent bus faults.
//
// # Basic Usage
//
// Applications configure tracing by passing a Logger to the driver:
//
//	// For development: log to console via slog
//	drv := spl.New(bus, spl.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/spl/sensor.spllog")
//	drv := spl.New(bus, spl.WithLogger(fl))
//
//	// Both: use MultiLogger
//	drv := spl.New(bus, spl.WithLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	)))
//
// # Event Types
//
// Events fall into three categories:
//   - Transaction: a completed register read or write (TransactionEvent)
//   - Lifecycle: bus attached, address changed, bus released (LifecycleEvent)
//   - Error: a failed or rejected operation (ErrorEventData)
//
// # File Format
//
// Trace files use CBOR encoding with the .spllog extension. The spl-log CLI
// tool provides viewing, filtering, and export.
package log
