// Package interactive provides the interactive shell of spl-tool.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/pa-spl/spl-go/cmd/spl-tool/commands"
	"github.com/pa-spl/spl-go/pkg/sim"
)

// Shell handles interactive mode for spl-tool.
type Shell struct {
	runner *commands.Runner
	dev    *sim.Device // nil on hardware
	rl     *readline.Instance
	out    io.Writer

	// Simulation control
	simCancel  context.CancelFunc
	simRunning bool
	simSeed    uint64
}

// New creates a shell. dev is the simulated module, or nil on hardware.
func New(runner *commands.Runner, dev *sim.Device) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "spl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(dev != nil),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(runner, dev, rl.Stdout())
	s.rl = rl
	runner.SetOutput(rl.Stdout())
	return s, nil
}

func newShell(runner *commands.Runner, dev *sim.Device, out io.Writer) *Shell {
	return &Shell{
		runner:  runner,
		dev:     dev,
		out:     out,
		simSeed: uint64(time.Now().UnixNano()),
	}
}

func completer(simulated bool) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help"),
		readline.PcItem("info"),
		readline.PcItem("read"),
		readline.PcItem("watch"),
		readline.PcItem("scratch"),
		readline.PcItem("avg", readline.PcItem("125"), readline.PcItem("1000")),
		readline.PcItem("filter", readline.PcItem("none"), readline.PcItem("a"), readline.PcItem("c")),
		readline.PcItem("gain"),
		readline.PcItem("interrupt", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("power", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("reset"),
		readline.PcItem("clear", readline.PcItem("interrupt"), readline.PcItem("minmax"), readline.PcItem("history")),
		readline.PcItem("address"),
		readline.PcItem("quit"),
	}
	if simulated {
		items = append(items,
			readline.PcItem("level"),
			readline.PcItem("sim", readline.PcItem("start"), readline.PcItem("stop")),
		)
	}
	return readline.NewPrefixCompleter(items...)
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()
	defer s.stopSimulation()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if s.Execute(ctx, line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one input line and reports whether the shell should exit.
// Errors are printed; a failed bus operation is never retried.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "quit", "exit", "q":
		return true
	case "address", "addr":
		err = s.cmdAddress(args)
	case "level":
		err = s.cmdLevel(args)
	case "sim":
		err = s.cmdSim(ctx, args)
	case "watch":
		// Bounded so the prompt comes back.
		switch len(args) {
		case 0:
			args = []string{"500ms", "10"}
		case 1:
			args = []string{args[0], "10"}
		}
		err = s.runner.Dispatch(ctx, cmd, args)
	default:
		err = s.runner.Dispatch(ctx, cmd, args)
	}

	if err != nil {
		if errors.Is(err, commands.ErrUnknownCommand) {
			fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		} else {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	return false
}

func (s *Shell) cmdAddress(args []string) error {
	drv := s.runner.Driver()
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Address: 0x%02X\n", drv.Address())
		return nil
	}
	v, err := strconv.ParseUint(args[0], 0, 7)
	if err != nil {
		return fmt.Errorf("%w: address [0x00-0x7F]", commands.ErrUsage)
	}
	drv.SetAddress(uint16(v))
	fmt.Fprintf(s.out, "Address set to 0x%02X\n", v)
	return nil
}

func (s *Shell) cmdLevel(args []string) error {
	if s.dev == nil {
		return errors.New("level is only available in simulation mode")
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: level <dB>", commands.ErrUsage)
	}
	v, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return fmt.Errorf("%w: level <dB>", commands.ErrUsage)
	}
	if !s.dev.SetLevel(uint8(v)) {
		fmt.Fprintln(s.out, "Sensor is powered down; reading dropped")
		return nil
	}
	fmt.Fprintf(s.out, "Injected %d dB\n", v)
	return nil
}

func (s *Shell) cmdSim(ctx context.Context, args []string) error {
	if s.dev == nil {
		return errors.New("sim is only available in simulation mode")
	}
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Simulation running: %t\n", s.simRunning)
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "start":
		base, spread := sim.AmbientBase, sim.AmbientSpread
		if len(args) > 1 {
			v, err := strconv.ParseUint(args[1], 10, 8)
			if err != nil {
				return fmt.Errorf("%w: sim start [base-dB] [spread-dB]", commands.ErrUsage)
			}
			base = uint8(v)
		}
		if len(args) > 2 {
			v, err := strconv.ParseUint(args[2], 10, 8)
			if err != nil {
				return fmt.Errorf("%w: sim start [base-dB] [spread-dB]", commands.ErrUsage)
			}
			spread = uint8(v)
		}
		s.StartSimulation(ctx, base, spread)
		fmt.Fprintf(s.out, "Simulation started (%d dB +/- %d)\n", base, spread)
	case "stop":
		s.stopSimulation()
		fmt.Fprintln(s.out, "Simulation stopped")
	default:
		return fmt.Errorf("%w: sim start|stop", commands.ErrUsage)
	}
	return nil
}

// StartSimulation feeds ambient readings into the simulated module until the
// shell stops it or ctx is done. It replaces any feed already running.
func (s *Shell) StartSimulation(ctx context.Context, base, spread uint8) {
	if s.dev == nil {
		return
	}
	s.stopSimulation()
	simCtx, cancel := context.WithCancel(ctx)
	s.simCancel = cancel
	s.simRunning = true
	s.simSeed++
	src := sim.Ambient(base, spread, s.simSeed)
	go func() {
		_ = s.dev.Simulate(simCtx, 250*time.Millisecond, src)
	}()
}

func (s *Shell) stopSimulation() {
	if s.simCancel != nil {
		s.simCancel()
		s.simCancel = nil
	}
	s.simRunning = false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
SPL Sensor Commands:
  Readings:
    info                  - Show identification and configuration
    read                  - Show latest, min and max SPL
    watch [interval] [n]  - Poll latest SPL (default 500ms, 10 readings)

  Registers:
    scratch [value]       - Read or write SCRATCH
    avg [ms]              - Read or write averaging time (125 fast, 1000 slow)
    filter [none|a|c]     - Read or set frequency weighting
    gain [value]          - Read or write GAIN (external microphone only)
    interrupt [on|off]    - Read or set interrupt enable
    power [on|off]        - Show power state, sleep, or wake via reset
    reset                 - System reset
    clear <what>          - Clear interrupt, minmax or history
    address [0xNN]        - Show or change the device address`)

	if s.dev != nil {
		fmt.Fprintln(s.out, `
  Simulation:
    level <dB>            - Inject a reading
    sim start [base] [spread] - Feed random readings
    sim stop              - Stop feeding readings`)
	}

	fmt.Fprintln(s.out, `
  Other:
    help                  - Show this help
    quit                  - Exit`)
}
