package interactive

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pa-spl/spl-go/cmd/spl-tool/commands"
	"github.com/pa-spl/spl-go/pkg/register"
	"github.com/pa-spl/spl-go/pkg/sim"
	"github.com/pa-spl/spl-go/pkg/spl"
)

func newTestShell(t *testing.T, simulated bool) (*Shell, *sim.Device, *bytes.Buffer) {
	t.Helper()
	dev := sim.New()
	var out bytes.Buffer
	runner := commands.NewRunner(spl.New(dev), &out)

	shellDev := dev
	if !simulated {
		shellDev = nil
	}
	return newShell(runner, shellDev, &out), dev, &out
}

func TestExecuteDispatchesToRunner(t *testing.T) {
	s, dev, out := newTestShell(t, true)

	assert.False(t, s.Execute(context.Background(), "scratch 0x42"))
	assert.Equal(t, uint8(0x42), dev.Register(register.RegScratch))
	assert.Contains(t, out.String(), "Scratch set to 0x42")
}

func TestExecuteQuit(t *testing.T) {
	s, _, _ := newTestShell(t, true)
	for _, cmd := range []string{"quit", "exit", "q", "  QUIT  "} {
		assert.True(t, s.Execute(context.Background(), cmd), cmd)
	}
}

func TestExecuteBlankLine(t *testing.T) {
	s, dev, out := newTestShell(t, true)
	assert.False(t, s.Execute(context.Background(), "   "))
	assert.Empty(t, out.String())
	assert.Equal(t, 0, dev.Transactions())
}

func TestExecuteUnknown(t *testing.T) {
	s, _, out := newTestShell(t, true)
	s.Execute(context.Background(), "frobnicate")
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestExecutePrintsErrors(t *testing.T) {
	s, _, out := newTestShell(t, true)
	s.Execute(context.Background(), "address 0x50")
	s.Execute(context.Background(), "read")
	assert.Contains(t, out.String(), "Error: spl: bus transaction failed")
}

func TestLevelAndRead(t *testing.T) {
	s, _, out := newTestShell(t, true)

	s.Execute(context.Background(), "level 72")
	s.Execute(context.Background(), "read")
	assert.Contains(t, out.String(), "SPL: 72 dB")
}

func TestLevelWhilePoweredDown(t *testing.T) {
	s, dev, out := newTestShell(t, true)

	s.Execute(context.Background(), "power off")
	s.Execute(context.Background(), "level 90")
	assert.Contains(t, out.String(), "reading dropped")
	assert.Equal(t, uint8(0), dev.Register(register.RegDecibel))
}

func TestSimulationCommandsRequireSimulator(t *testing.T) {
	s, _, out := newTestShell(t, false)

	s.Execute(context.Background(), "level 50")
	s.Execute(context.Background(), "sim start")
	assert.Contains(t, out.String(), "only available in simulation mode")
}

func TestSimStartStop(t *testing.T) {
	s, dev, out := newTestShell(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Execute(ctx, "sim start 66 0")
	assert.True(t, s.simRunning)
	assert.Eventually(t, func() bool {
		return dev.Register(register.RegDecibel) == 66
	}, 2*time.Second, 10*time.Millisecond)

	s.Execute(ctx, "sim stop")
	assert.False(t, s.simRunning)
	assert.Contains(t, out.String(), "Simulation started (66 dB +/- 0)")
}

func TestAddress(t *testing.T) {
	s, _, out := newTestShell(t, true)

	s.Execute(context.Background(), "address 0x49")
	assert.Equal(t, uint16(0x49), s.runner.Driver().Address())

	s.Execute(context.Background(), "address")
	assert.Contains(t, out.String(), "Address: 0x49")

	s.Execute(context.Background(), "address 0x80")
	assert.Contains(t, out.String(), "Error: usage")
}

func TestWatchIsBounded(t *testing.T) {
	s, dev, _ := newTestShell(t, true)

	s.Execute(context.Background(), "watch 1ms")
	assert.Equal(t, 10, dev.Transactions())
}

func TestHelp(t *testing.T) {
	s, _, out := newTestShell(t, false)
	s.Execute(context.Background(), "help")
	assert.Contains(t, out.String(), "SPL Sensor Commands")
	assert.NotContains(t, out.String(), "Simulation:")
}

func TestStartedFeedIsControlledByShell(t *testing.T) {
	s, dev, out := newTestShell(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartSimulation(ctx, 70, 0)
	require.Eventually(t, func() bool {
		return dev.Register(register.RegDecibel) == 70
	}, 2*time.Second, 10*time.Millisecond)

	s.Execute(ctx, "sim")
	assert.Contains(t, out.String(), "Simulation running: true")

	s.Execute(ctx, "sim stop")
	s.Execute(ctx, "level 40")
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, uint8(40), dev.Register(register.RegDecibel))
}

func TestStartSimulationWithoutSimulator(t *testing.T) {
	s, _, _ := newTestShell(t, false)
	s.StartSimulation(context.Background(), 70, 0)
	assert.False(t, s.simRunning)
}
