package sim

import (
	"context"
	"math/rand/v2"
	"time"
)

// Default ambient room level used when no other source is configured.
const (
	AmbientBase   uint8 = 55
	AmbientSpread uint8 = 6
)

// LevelSource produces a reading for the given instant.
type LevelSource func(now time.Time) uint8

// Ambient returns a source that wanders around base by up to spread dB.
func Ambient(base, spread uint8, seed uint64) LevelSource {
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	return func(time.Time) uint8 {
		if spread == 0 {
			return base
		}
		offset := rng.IntN(2*int(spread)+1) - int(spread)
		v := int(base) + offset
		return uint8(min(max(v, 0), 255))
	}
}

// Simulate feeds readings from src into the device every interval until ctx
// is cancelled. Readings are dropped while the sensor is powered down.
func (d *Device) Simulate(ctx context.Context, interval time.Duration, src LevelSource) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			d.SetLevel(src(now))
		}
	}
}
