// Package sim provides an in-memory SPL module for development and tests.
//
// A Device implements the same Tx method as an I²C bus, so it can be passed
// to spl.New in place of hardware. It models the register file with
// auto-increment, read-only registers, the self-clearing RESET commands and
// power down. Readings are injected with SetLevel or Simulate.
//
//	dev := sim.New()
//	drv := spl.New(dev)
//	dev.SetLevel(64)
//	db, _ := drv.GetLatestDecibel() // 64
package sim
