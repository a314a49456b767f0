// Command spl-tool reads and configures a PCB Artists SPL module.
//
// The module is reached over a host I²C bus through periph.io, or simulated
// in memory with -simulate.
//
// Usage:
//
//	spl-tool [flags] <command> [args]
//
// Commands:
//
//	info                  Show identification and configuration
//	read                  Show latest, min and max SPL
//	watch [interval] [n]  Poll the latest SPL until interrupted
//	scratch [value]       Read or write SCRATCH
//	avg [ms]              Read or write the averaging time
//	filter [none|a|c]     Read or set frequency weighting
//	gain [value]          Read or write GAIN (external microphone)
//	interrupt [on|off]    Read or set interrupt enable
//	power [on|off]        Show power state, sleep, or wake via reset
//	reset                 System reset
//	clear <what>          Clear interrupt, minmax or history
//	apply                 Write the settings block of the config file
//	shell                 Start the interactive shell
//
// Examples:
//
//	# Print the SPL every 125 ms from the module on the first bus
//	spl-tool watch 125ms
//
//	# Configure fast averaging and C-weighting from a file, with a trace
//	spl-tool -config bench.yaml -trace bench.spllog apply
//
//	# Explore the register file without hardware
//	spl-tool -simulate shell
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pa-spl/spl-go/cmd/spl-tool/commands"
	"github.com/pa-spl/spl-go/cmd/spl-tool/interactive"
	"github.com/pa-spl/spl-go/internal/config"
	"github.com/pa-spl/spl-go/pkg/hostbus"
	"github.com/pa-spl/spl-go/pkg/log"
	"github.com/pa-spl/spl-go/pkg/sim"
	"github.com/pa-spl/spl-go/pkg/spl"
)

var (
	configFile   = flag.String("config", "", "Configuration file path (YAML)")
	busName      = flag.String("bus", "", "I2C bus name (default: first available)")
	address      = flag.Uint("addr", 0, "Device address (default 0x48)")
	variant      = flag.String("variant", "", "Module variant: internal, external")
	simulate     = flag.Bool("simulate", false, "Use a simulated module instead of hardware")
	traceFile    = flag.String("trace", "", "Write a CBOR bus trace to this file")
	traceConsole = flag.Bool("trace-console", false, "Log bus transactions at debug level")
	logLevel     = flag.String("log-level", "", "Log level: debug, info, warn, error")
	interval     = flag.Duration("interval", 0, "Poll interval for watch")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spl-tool [flags] <command> [args]\n\nCommands: %v apply shell\n\nFlags:\n", commands.Names())
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies explicitly set flags
// on top of it.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bus":
			cfg.Bus = *busName
		case "addr":
			addr, err := addressFlag(*address)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Address = addr
		case "variant":
			cfg.Variant = *variant
		case "simulate":
			cfg.Simulate = *simulate
		case "trace":
			cfg.TraceLog = *traceFile
		case "trace-console":
			cfg.TraceConsole = *traceConsole
		case "log-level":
			cfg.LogLevel = *logLevel
		case "interval":
			cfg.PollInterval = *interval
		}
	})

	if flagErr != nil {
		return config.Config{}, flagErr
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// addressFlag checks the -addr value before narrowing it to a 7-bit address.
func addressFlag(v uint) (uint16, error) {
	if v > 0x7F {
		return 0, fmt.Errorf("invalid -addr 0x%X: must be a 7-bit address (0x00-0x7F)", v)
	}
	return uint16(v), nil
}

func run(cmd string, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus, dev, closeBus, err := openBus(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBus()

	trace, closeTrace, err := openTrace(cfg, logger)
	if err != nil {
		return err
	}
	defer closeTrace()

	opts := []spl.Option{spl.WithAddress(cfg.Address), spl.WithLogger(trace)}
	var runner *commands.Runner
	if cfg.External() {
		runner = commands.NewExternalRunner(spl.NewExternalMic(bus, opts...), os.Stdout)
	} else {
		runner = commands.NewRunner(spl.New(bus, opts...), os.Stdout)
	}
	runner.SetLogger(logger)
	defer func() {
		if _, err := runner.Driver().Release(); err != nil && !errors.Is(err, spl.ErrNoBusInstance) {
			logger.Warn("release failed", "error", err)
		}
	}()

	logger.Debug("driver ready",
		"addr", fmt.Sprintf("0x%02X", cfg.Address),
		"variant", cfg.Variant,
		"simulate", cfg.Simulate,
		"session_id", runner.Driver().SessionID())

	if dev != nil && cmd != "shell" {
		feedAmbient(ctx, dev)
	}

	switch cmd {
	case "shell":
		shell, err := interactive.New(runner, dev)
		if err != nil {
			return err
		}
		shellCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		// The shell owns the feed so that sim stop and level work.
		shell.StartSimulation(shellCtx, sim.AmbientBase, sim.AmbientSpread)
		shell.Run(shellCtx, cancel)
		return nil
	case "apply":
		return runner.Apply(cfg.Settings)
	case "watch":
		if len(args) == 0 {
			args = []string{cfg.PollInterval.String()}
		}
		return runner.Dispatch(ctx, cmd, args)
	default:
		return runner.Dispatch(ctx, cmd, args)
	}
}

// openBus returns the bus to drive and, in simulation mode, the simulated
// module. Feeding the module with readings is left to the caller.
func openBus(cfg config.Config, logger *slog.Logger) (spl.Bus, *sim.Device, func(), error) {
	if cfg.Simulate {
		simOpts := []sim.Option{sim.WithAddress(cfg.Address)}
		if cfg.External() {
			simOpts = append(simOpts, sim.WithExternalMic())
		}
		dev := sim.New(simOpts...)

		logger.Info("using simulated module", "addr", fmt.Sprintf("0x%02X", cfg.Address))
		return dev, dev, func() {}, nil
	}

	bus, err := hostbus.Open(cfg.Bus)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("opened I2C bus", "bus", bus.String())
	return bus, nil, func() {
		if err := bus.Close(); err != nil {
			logger.Warn("closing bus failed", "error", err)
		}
	}, nil
}

// feedAmbient seeds dev with one reading and keeps it fed until ctx is done.
func feedAmbient(ctx context.Context, dev *sim.Device) {
	src := sim.Ambient(sim.AmbientBase, sim.AmbientSpread, uint64(time.Now().UnixNano()))
	dev.SetLevel(src(time.Now()))
	go func() {
		_ = dev.Simulate(ctx, 250*time.Millisecond, src)
	}()
}

// openTrace builds the trace logger from the file and console settings.
func openTrace(cfg config.Config, logger *slog.Logger) (log.Logger, func(), error) {
	var loggers []log.Logger
	var fl *log.FileLogger

	if cfg.TraceLog != "" {
		path := log.TracePath(cfg.TraceLog)
		var err error
		fl, err = log.NewFileLogger(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		loggers = append(loggers, fl)
		logger.Info("writing bus trace", "path", path)
	}
	if cfg.TraceConsole {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	closeFn := func() {
		if fl != nil {
			written, failed := fl.Count()
			logger.Debug("bus trace closed", "events", written, "failed", failed)
			if err := fl.Close(); err != nil {
				logger.Warn("closing trace file failed", "error", err)
			}
		}
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return log.NewMultiLogger(loggers...), closeFn, nil
	}
}
