// Package hostbus opens I²C buses of the host through periph.io.
package hostbus

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/pa-spl/spl-go/pkg/spl"
)

// periph buses drive the module directly.
var _ spl.Bus = (i2c.Bus)(nil)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the periph host drivers. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initErr = fmt.Errorf("hostbus: init host drivers: %w", err)
		}
	})
	return initErr
}

// Open opens the named I²C bus. An empty name selects the first bus found.
// The caller closes the bus after releasing it from the driver.
func Open(name string) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		if name == "" {
			return nil, fmt.Errorf("hostbus: open default bus: %w", err)
		}
		return nil, fmt.Errorf("hostbus: open bus %q: %w", name, err)
	}
	return bus, nil
}

// Names lists the registered I²C buses.
func Names() ([]string, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	refs := i2creg.All()
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names, nil
}
