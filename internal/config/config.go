// Package config loads the spl-tool configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pa-spl/spl-go/pkg/register"
)

// Module variants.
const (
	VariantInternal = "internal"
	VariantExternal = "external"
)

// Config is the spl-tool configuration.
type Config struct {
	// Bus is the periph I²C bus name. Empty selects the first bus.
	Bus string `yaml:"bus"`

	// Address is the 7-bit device address.
	Address uint16 `yaml:"address"`

	// Variant is "internal" or "external".
	Variant string `yaml:"variant"`

	// Simulate uses the in-memory module instead of hardware.
	Simulate bool `yaml:"simulate"`

	// TraceLog is the path of the CBOR trace file. Empty disables it.
	TraceLog string `yaml:"trace_log"`

	// TraceConsole mirrors trace events to the console at debug level.
	TraceConsole bool `yaml:"trace_console"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// PollInterval is the watch loop interval.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Settings are written to the module by "spl-tool apply".
	Settings Settings `yaml:"settings"`
}

// Settings holds register values to apply. Nil or empty fields are left
// untouched on the module.
type Settings struct {
	AvgTimeMS       *uint16 `yaml:"avg_time_ms"`
	Filter          string  `yaml:"filter"`
	InterruptEnable *bool   `yaml:"interrupt_enable"`
	Gain            *uint8  `yaml:"gain"`
}

// Empty reports whether no setting is present.
func (s Settings) Empty() bool {
	return s.AvgTimeMS == nil && s.Filter == "" && s.InterruptEnable == nil && s.Gain == nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Address:      register.DefaultAddress,
		Variant:      VariantInternal,
		LogLevel:     "info",
		PollInterval: 500 * time.Millisecond,
	}
}

// LoadError describes a configuration file that could not be loaded.
type LoadError struct {
	// File is the path of the configuration file.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &LoadError{Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return Config{}, le
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values. Gain and averaging time are not range
// checked here; see Warnings.
func (c Config) Validate() error {
	var errs []error

	if c.Address > 0x7F {
		errs = append(errs, fmt.Errorf("address 0x%02X is not a 7-bit address", c.Address))
	}
	if c.Variant != VariantInternal && c.Variant != VariantExternal {
		errs = append(errs, fmt.Errorf("unknown variant %q (must be %s or %s)", c.Variant, VariantInternal, VariantExternal))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.Settings.Filter != "" {
		if _, err := register.ParseFilterSetting(c.Settings.Filter); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Settings.Gain != nil && c.Variant != VariantExternal {
		errs = append(errs, errors.New("gain requires the external variant"))
	}

	return errors.Join(errs...)
}

// Warnings returns non-fatal findings, such as values outside the documented
// range that the module accepts anyway.
func (c Config) Warnings() []string {
	var warnings []string
	if g := c.Settings.Gain; g != nil && *g > register.MaxGain {
		warnings = append(warnings, fmt.Sprintf("gain %d exceeds documented maximum %d", *g, register.MaxGain))
	}
	if ms := c.Settings.AvgTimeMS; ms != nil && *ms != 125 && *ms != 1000 {
		warnings = append(warnings, fmt.Sprintf("avg_time_ms %d is neither 125 (fast) nor 1000 (slow)", *ms))
	}
	return warnings
}

// External reports whether the external-microphone variant is configured.
func (c Config) External() bool {
	return c.Variant == VariantExternal
}

// SlogLevel returns the configured log level. Invalid levels map to info.
func (c Config) SlogLevel() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
