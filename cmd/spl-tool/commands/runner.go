// Package commands implements the spl-tool commands on top of a driver.
//
// The same Runner serves one-shot command-line invocations and the
// interactive shell.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pa-spl/spl-go/pkg/register"
	"github.com/pa-spl/spl-go/pkg/spl"
)

// Command errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrNoGain         = errors.New("gain requires the external microphone variant")
)

// GainController is implemented by drivers with a GAIN register.
type GainController interface {
	GetGain() (uint8, error)
	SetGain(value uint8) error
}

// Runner executes commands against one driver.
type Runner struct {
	drv    *spl.Driver
	gain   GainController // nil without external microphone
	out    io.Writer
	logger *slog.Logger
}

// NewRunner creates a runner for a module with the built-in microphone.
func NewRunner(drv *spl.Driver, out io.Writer) *Runner {
	return &Runner{drv: drv, out: out, logger: slog.New(slog.DiscardHandler)}
}

// NewExternalRunner creates a runner for a module with an external microphone.
func NewExternalRunner(drv *spl.ExternalMicDriver, out io.Writer) *Runner {
	r := NewRunner(drv.Driver, out)
	r.gain = drv
	return r
}

// SetLogger sets the operational logger.
func (r *Runner) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// SetOutput redirects command output.
func (r *Runner) SetOutput(out io.Writer) {
	r.out = out
}

// Driver returns the underlying driver.
func (r *Runner) Driver() *spl.Driver {
	return r.drv
}

// Names lists the commands Dispatch accepts.
func Names() []string {
	return []string{"info", "read", "watch", "scratch", "avg", "filter", "gain", "interrupt", "power", "reset", "clear"}
}

// Dispatch runs the named command. Commands that take an optional value read
// the register without one and write it with one.
func (r *Runner) Dispatch(ctx context.Context, cmd string, args []string) error {
	switch strings.ToLower(cmd) {
	case "info":
		return r.Info()
	case "read":
		return r.Read()
	case "watch":
		return r.dispatchWatch(ctx, args)
	case "scratch":
		return r.Scratch(args)
	case "avg":
		return r.Avg(args)
	case "filter":
		return r.Filter(args)
	case "gain":
		return r.Gain(args)
	case "interrupt":
		return r.Interrupt(args)
	case "power":
		return r.Power(args)
	case "reset":
		return r.Reset()
	case "clear":
		return r.Clear(args)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (r *Runner) dispatchWatch(ctx context.Context, args []string) error {
	interval := 500 * time.Millisecond
	count := 0
	if len(args) > 0 {
		d, err := time.ParseDuration(args[0])
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: watch [interval] [count]", ErrUsage)
		}
		interval = d
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return fmt.Errorf("%w: watch [interval] [count]", ErrUsage)
		}
		count = n
	}
	return r.Watch(ctx, interval, count)
}

// FirmwareName returns the product name for a VERSION value.
func FirmwareName(version uint8) string {
	switch version {
	case register.VersionMEMSLTS:
		return "MEMS-LTS"
	case register.VersionMEMSLTSASA, register.VersionMEMSLTSASA + 1:
		return "MEMS-LTS-ASA"
	default:
		return "unknown"
	}
}

// Info prints identification and configuration registers.
func (r *Runner) Info() error {
	version, err := r.drv.GetFirmwareVersion()
	if err != nil {
		return err
	}
	id, err := r.drv.GetDeviceID()
	if err != nil {
		return err
	}
	ctrl, err := r.drv.GetControlRegister()
	if err != nil {
		return err
	}
	avg, err := r.drv.GetAvgTime()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Address:   0x%02X\n", r.drv.Address())
	fmt.Fprintf(r.out, "Variant:   %s\n", r.drv.Layout().Name())
	fmt.Fprintf(r.out, "Firmware:  0x%02X (%s)\n", version, FirmwareName(version))
	fmt.Fprintf(r.out, "Device ID: 0x%08X (%d)\n", id, id)
	fmt.Fprintf(r.out, "Control:   %s\n", ctrl)
	fmt.Fprintf(r.out, "Avg time:  %d ms\n", avg)

	if r.gain != nil {
		gain, err := r.gain.GetGain()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Gain:      %d (%.1f dB)\n", gain, float64(gain)/2)
	}
	return nil
}

// Read prints the latest, minimum and maximum SPL values.
func (r *Runner) Read() error {
	latest, err := r.drv.GetLatestDecibel()
	if err != nil {
		return err
	}
	lo, err := r.drv.GetMinDecibel()
	if err != nil {
		return err
	}
	hi, err := r.drv.GetMaxDecibel()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "SPL: %d dB (min %d dB, max %d dB)\n", latest, lo, hi)
	return nil
}

// Watch prints the latest SPL value every interval until ctx is done or
// count readings were printed. A count of zero means no limit. The first
// failed read ends the loop.
func (r *Runner) Watch(ctx context.Context, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; count == 0 || n < count; n++ {
		db, err := r.drv.GetLatestDecibel()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s  %3d dB\n", time.Now().Format("15:04:05.000"), db)

		if count != 0 && n+1 == count {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Scratch reads SCRATCH, or writes it when a value is given.
func (r *Runner) Scratch(args []string) error {
	if len(args) == 0 {
		v, err := r.drv.GetScratch()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Scratch: 0x%02X\n", v)
		return nil
	}
	v, err := parseByte(args[0])
	if err != nil {
		return fmt.Errorf("%w: scratch [0-255]", ErrUsage)
	}
	if err := r.drv.SetScratch(v); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Scratch set to 0x%02X\n", v)
	return nil
}

// Avg reads the averaging time, or writes it when a value in ms is given.
func (r *Runner) Avg(args []string) error {
	if len(args) == 0 {
		ms, err := r.drv.GetAvgTime()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Avg time: %d ms\n", ms)
		return nil
	}
	v, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		return fmt.Errorf("%w: avg [ms]", ErrUsage)
	}
	ms := uint16(v)
	if ms != 125 && ms != 1000 {
		r.logger.Warn("averaging time outside documented values", "ms", ms, "fast", 125, "slow", 1000)
	}
	if err := r.drv.SetAvgTime(ms); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Avg time set to %d ms\n", ms)
	return nil
}

// Filter reads the frequency weighting, or changes it with a
// read-modify-write of CONTROL.
func (r *Runner) Filter(args []string) error {
	if len(args) == 0 {
		ctrl, err := r.drv.GetControlRegister()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Filter: %s\n", ctrl.Filter)
		return nil
	}
	f, err := register.ParseFilterSetting(args[0])
	if err != nil {
		return fmt.Errorf("%w: filter [none|a|c]", ErrUsage)
	}
	ctrl, err := r.drv.GetControlRegister()
	if err != nil {
		return err
	}
	ctrl.SetFilter(f)
	if err := r.drv.SetControlRegister(ctrl); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Filter set to %s\n", f)
	return nil
}

// Interrupt reads or sets the interrupt enable bit.
func (r *Runner) Interrupt(args []string) error {
	return r.controlFlag(args, "Interrupt", "interrupt [on|off]", func(c *register.ControlRegister) *bool {
		return &c.InterruptEnable
	})
}

// Power shows the power state, puts the sensor to sleep with "off", or wakes
// it with "on". Waking requires a system reset, which restores all defaults.
func (r *Runner) Power(args []string) error {
	if len(args) == 0 {
		ctrl, err := r.drv.GetControlRegister()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Power: %s\n", onOff(!ctrl.PowerDown))
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "on":
		if err := r.drv.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Power: on (system reset, defaults restored)")
		return nil
	case "off":
		ctrl, err := r.drv.GetControlRegister()
		if err != nil {
			return err
		}
		ctrl.PowerDown = true
		if err := r.drv.SetControlRegister(ctrl); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Power: off")
		return nil
	default:
		return fmt.Errorf("%w: power [on|off]", ErrUsage)
	}
}

// controlFlag reads or changes one boolean field of CONTROL.
func (r *Runner) controlFlag(args []string, label, usage string, field func(*register.ControlRegister) *bool) error {
	if len(args) == 0 {
		ctrl, err := r.drv.GetControlRegister()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s: %s\n", label, onOff(*field(&ctrl)))
		return nil
	}

	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		on = true
	case "off", "false", "0":
		on = false
	default:
		return fmt.Errorf("%w: %s", ErrUsage, usage)
	}

	ctrl, err := r.drv.GetControlRegister()
	if err != nil {
		return err
	}
	*field(&ctrl) = on
	if err := r.drv.SetControlRegister(ctrl); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s set to %s\n", label, onOff(on))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Gain reads GAIN, or writes it when a value is given.
func (r *Runner) Gain(args []string) error {
	if r.gain == nil {
		return ErrNoGain
	}
	if len(args) == 0 {
		v, err := r.gain.GetGain()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Gain: %d (%.1f dB)\n", v, float64(v)/2)
		return nil
	}
	v, err := parseByte(args[0])
	if err != nil {
		return fmt.Errorf("%w: gain [0-%d]", ErrUsage, register.MaxGain)
	}
	if v > register.MaxGain {
		r.logger.Warn("gain exceeds documented maximum", "gain", v, "max", register.MaxGain)
	}
	if err := r.gain.SetGain(v); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Gain set to %d\n", v)
	return nil
}

// Reset issues a system reset.
func (r *Runner) Reset() error {
	if err := r.drv.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "System reset issued")
	return nil
}

// Clear issues one of the clear commands: interrupt, minmax or history.
func (r *Runner) Clear(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: clear interrupt|minmax|history", ErrUsage)
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "interrupt", "int":
		err = r.drv.ClearInterrupt()
	case "minmax":
		err = r.drv.ClearMinMax()
	case "history":
		err = r.drv.ClearHistory()
	default:
		return fmt.Errorf("%w: clear interrupt|minmax|history", ErrUsage)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Cleared %s\n", strings.ToLower(args[0]))
	return nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
