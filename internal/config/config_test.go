package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pa-spl/spl-go/pkg/register"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, register.DefaultAddress, cfg.Address)
	assert.Equal(t, VariantInternal, cfg.Variant)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Settings.Empty())
}

func TestParseFull(t *testing.T) {
	data := `
bus: "/dev/i2c-1"
address: 0x49
variant: external
simulate: true
trace_log: /tmp/spl.spllog
trace_console: true
log_level: debug
poll_interval: 250ms
settings:
  avg_time_ms: 125
  filter: c-weighting
  interrupt_enable: true
  gain: 40
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "/dev/i2c-1", cfg.Bus)
	assert.Equal(t, uint16(0x49), cfg.Address)
	assert.True(t, cfg.External())
	assert.True(t, cfg.Simulate)
	assert.Equal(t, "/tmp/spl.spllog", cfg.TraceLog)
	assert.True(t, cfg.TraceConsole)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)

	require.NotNil(t, cfg.Settings.AvgTimeMS)
	assert.Equal(t, uint16(125), *cfg.Settings.AvgTimeMS)
	assert.Equal(t, "c-weighting", cfg.Settings.Filter)
	require.NotNil(t, cfg.Settings.InterruptEnable)
	assert.True(t, *cfg.Settings.InterruptEnable)
	require.NotNil(t, cfg.Settings.Gain)
	assert.Equal(t, uint8(40), *cfg.Settings.Gain)
	assert.Empty(t, cfg.Warnings())
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("simulate: true\n"))
	require.NoError(t, err)
	assert.Equal(t, register.DefaultAddress, cfg.Address)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "colour: blue\n"},
		{"address too large", "address: 0x80\n"},
		{"bad variant", "variant: stereo\n"},
		{"bad level", "log_level: loud\n"},
		{"zero interval", "poll_interval: 0s\n"},
		{"bad filter", "settings:\n  filter: z\n"},
		{"gain on internal", "settings:\n  gain: 10\n"},
		{"malformed", "address: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)

			var le *LoadError
			assert.True(t, errors.As(err, &le))
		})
	}
}

func TestWarnings(t *testing.T) {
	gain := uint8(120)
	avg := uint16(500)
	cfg := Default()
	cfg.Variant = VariantExternal
	cfg.Settings.Gain = &gain
	cfg.Settings.AvgTimeMS = &avg

	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Warnings(), 2)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("address: 0x4A\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x4A), cfg.Address)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(path)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.File)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadInvalidFileNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: mono\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "mono")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
