package commands

import (
	"fmt"

	"github.com/pa-spl/spl-go/internal/config"
	"github.com/pa-spl/spl-go/pkg/register"
)

// Apply writes configured settings in a fixed order: averaging time, then
// CONTROL (read-modify-write), then gain. It stops at the first failure.
func (r *Runner) Apply(s config.Settings) error {
	if s.Empty() {
		fmt.Fprintln(r.out, "No settings to apply")
		return nil
	}

	if s.AvgTimeMS != nil {
		if err := r.drv.SetAvgTime(*s.AvgTimeMS); err != nil {
			return fmt.Errorf("apply avg_time_ms: %w", err)
		}
		fmt.Fprintf(r.out, "avg_time_ms = %d\n", *s.AvgTimeMS)
	}

	if s.Filter != "" || s.InterruptEnable != nil {
		ctrl, err := r.drv.GetControlRegister()
		if err != nil {
			return fmt.Errorf("apply control: %w", err)
		}
		if s.Filter != "" {
			f, err := register.ParseFilterSetting(s.Filter)
			if err != nil {
				return fmt.Errorf("apply filter: %w", err)
			}
			ctrl.SetFilter(f)
		}
		if s.InterruptEnable != nil {
			ctrl.InterruptEnable = *s.InterruptEnable
		}
		if err := r.drv.SetControlRegister(ctrl); err != nil {
			return fmt.Errorf("apply control: %w", err)
		}
		fmt.Fprintf(r.out, "control = %s\n", ctrl)
	}

	if s.Gain != nil {
		if r.gain == nil {
			return ErrNoGain
		}
		if err := r.gain.SetGain(*s.Gain); err != nil {
			return fmt.Errorf("apply gain: %w", err)
		}
		fmt.Fprintf(r.out, "gain = %d\n", *s.Gain)
	}
	return nil
}
