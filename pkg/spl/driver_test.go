package spl_test

import (
	"errors"
	"testing"

	"github.com/pa-spl/spl-go/pkg/log"
	"github.com/pa-spl/spl-go/pkg/register"
	"github.com/pa-spl/spl-go/pkg/spl"
	"github.com/pa-spl/spl-go/pkg/spl/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	bus := mocks.NewMockBus(t)
	rec := &recordingLogger{}

	dev := spl.New(bus, spl.WithLogger(rec))

	assert.Equal(t, register.DefaultAddress, dev.Address())
	assert.Equal(t, "internal", dev.Layout().Name())
	assert.NotEmpty(t, dev.SessionID())
	assert.False(t, dev.Released())

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, log.CategoryLifecycle, events[0].Category)
	require.NotNil(t, events[0].Lifecycle)
	assert.Equal(t, log.LifecycleAttached, events[0].Lifecycle.Kind)
	assert.Equal(t, "internal", events[0].Lifecycle.Variant)
}

func TestWithSessionID(t *testing.T) {
	dev := spl.New(mocks.NewMockBus(t), spl.WithSessionID("bench-1"))
	assert.Equal(t, "bench-1", dev.SessionID())
}

func TestWithNilLogger(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectRead(bus, register.RegVersion, 0x32)

	dev := spl.New(bus, spl.WithLogger(nil))
	_, err := dev.GetFirmwareVersion()
	require.NoError(t, err)
}

func TestGetFirmwareVersion(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectRead(bus, register.RegVersion, register.VersionMEMSLTSASA)

	version, err := spl.New(bus).GetFirmwareVersion()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x32), version)
}

func TestGetDeviceID(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"sequential", []byte{0x01, 0x02, 0x03, 0x04}, 0x01020304},
		{"production unit", []byte{0x6F, 0x49, 0xAC, 0x5A}, 1867099226},
		{"zero", []byte{0, 0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := mocks.NewMockBus(t)
			expectRead(bus, register.RegDeviceID3, tt.data...)

			id, err := spl.New(bus).GetDeviceID()
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestScratch(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectWrite(bus, register.RegScratch, 0x99)
	expectRead(bus, register.RegScratch, 0x99)

	dev := spl.New(bus)
	require.NoError(t, dev.SetScratch(0x99))

	got, err := dev.GetScratch()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x99), got)
}

func TestGetControlRegisterDefault(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectRead(bus, register.RegControl, register.ControlDefault)

	ctrl, err := spl.New(bus).GetControlRegister()
	require.NoError(t, err)
	assert.False(t, ctrl.PowerDown)
	assert.Equal(t, register.FilterAWeighting, ctrl.Filter)
	assert.False(t, ctrl.InterruptEnable)
	assert.False(t, ctrl.InterruptType)
}

func TestSetControlRegister(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectWrite(bus, register.RegControl, 0b0000_1100)

	ctrl := register.ControlRegister{InterruptEnable: true}
	ctrl.SetFilter(register.FilterCWeighting)

	require.NoError(t, spl.New(bus).SetControlRegister(ctrl))
}

func TestSetControlRegisterKeepsReservedBits(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectRead(bus, register.RegControl, 0b1010_0010)
	expectWrite(bus, register.RegControl, 0b1010_0101)

	dev := spl.New(bus)
	ctrl, err := dev.GetControlRegister()
	require.NoError(t, err)

	ctrl.PowerDown = true
	ctrl.SetFilter(register.FilterCWeighting)
	require.NoError(t, dev.SetControlRegister(ctrl))
}

func TestResetCommands(t *testing.T) {
	tests := []struct {
		name string
		call func(*spl.Driver) error
		want byte
	}{
		{"reset", (*spl.Driver).Reset, 0b0000_1000},
		{"clear interrupt", (*spl.Driver).ClearInterrupt, 0b0000_0001},
		{"clear min max", (*spl.Driver).ClearMinMax, 0b0000_0010},
		{"clear history", (*spl.Driver).ClearHistory, 0b0000_0100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := mocks.NewMockBus(t)
			expectWrite(bus, register.RegReset, tt.want)

			require.NoError(t, tt.call(spl.New(bus)))
			bus.AssertNumberOfCalls(t, "Tx", 1)
		})
	}
}

func TestGetAvgTime(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectRead(bus, register.RegTavgHigh, 0x03, 0xE8)

	ms, err := spl.New(bus).GetAvgTime()
	require.NoError(t, err)
	assert.Equal(t, uint16(1000), ms)
}

func TestSetAvgTime(t *testing.T) {
	tests := []struct {
		ms   uint16
		want []byte
	}{
		{125, []byte{register.RegTavgHigh, 0x00, 0x7D}},
		{1000, []byte{register.RegTavgHigh, 0x03, 0xE8}},
		{0xFFFF, []byte{register.RegTavgHigh, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		bus := mocks.NewMockBus(t)
		expectWrite(bus, tt.want...)
		require.NoError(t, spl.New(bus).SetAvgTime(tt.ms))
	}
}

func TestAvgTimeRoundTrip(t *testing.T) {
	bus := &memBus{}
	dev := spl.New(bus)

	for _, ms := range []uint16{0, 1, 125, 255, 256, 1000, 0x7FFF, 0x8000, 0xFFFE, 0xFFFF} {
		require.NoError(t, dev.SetAvgTime(ms))
		got, err := dev.GetAvgTime()
		require.NoError(t, err)
		assert.Equal(t, ms, got)
	}
	assert.Equal(t, 20, bus.txs)
}

func TestDecibelReadings(t *testing.T) {
	tests := []struct {
		name string
		reg  uint8
		call func(*spl.Driver) (uint8, error)
	}{
		{"latest", register.RegDecibel, (*spl.Driver).GetLatestDecibel},
		{"min", register.RegMin, (*spl.Driver).GetMinDecibel},
		{"max", register.RegMax, (*spl.Driver).GetMaxDecibel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := mocks.NewMockBus(t)
			expectRead(bus, tt.reg, 72)

			got, err := tt.call(spl.New(bus))
			require.NoError(t, err)
			assert.Equal(t, uint8(72), got)
		})
	}
}

func TestSetAddress(t *testing.T) {
	bus := mocks.NewMockBus(t)
	rec := &recordingLogger{}
	dev := spl.New(bus, spl.WithLogger(rec))

	dev.SetAddress(0x49)
	assert.Equal(t, uint16(0x49), dev.Address())
	bus.AssertNotCalled(t, "Tx", mock.Anything, mock.Anything, mock.Anything)

	events := rec.Events()
	require.Len(t, events, 2)
	require.NotNil(t, events[1].Lifecycle)
	assert.Equal(t, log.LifecycleAddressChanged, events[1].Lifecycle.Kind)
	assert.Equal(t, uint16(0x48), events[1].Lifecycle.OldAddress)
	assert.Equal(t, uint16(0x49), events[1].Lifecycle.NewAddress)

	bus.EXPECT().Tx(uint16(0x49), []byte{register.RegVersion}, mock.Anything).Return(nil).Once()
	_, err := dev.GetFirmwareVersion()
	require.NoError(t, err)
}

func TestWithAddress(t *testing.T) {
	bus := mocks.NewMockBus(t)
	bus.EXPECT().Tx(uint16(0x4A), []byte{register.RegScratch, 0x01}, []byte(nil)).Return(nil).Once()

	dev := spl.New(bus, spl.WithAddress(0x4A))
	require.NoError(t, dev.SetScratch(0x01))
}

func TestReleaseTwice(t *testing.T) {
	bus := mocks.NewMockBus(t)
	dev := spl.New(bus)

	got, err := dev.Release()
	require.NoError(t, err)
	assert.Same(t, bus, got)
	assert.True(t, dev.Released())

	got, err = dev.Release()
	assert.ErrorIs(t, err, spl.ErrNoBusInstance)
	assert.Nil(t, got)
}

func TestOperationsAfterRelease(t *testing.T) {
	bus := mocks.NewMockBus(t)
	dev := spl.NewExternalMic(bus)
	_, err := dev.Release()
	require.NoError(t, err)

	calls := map[string]func() error{
		"version": func() error { _, err := dev.GetFirmwareVersion(); return err },
		"id":      func() error { _, err := dev.GetDeviceID(); return err },
		"scratch": func() error { return dev.SetScratch(1) },
		"control": func() error { _, err := dev.GetControlRegister(); return err },
		"reset":   dev.Reset,
		"avg":     func() error { return dev.SetAvgTime(125) },
		"decibel": func() error { _, err := dev.GetLatestDecibel(); return err },
		"gain":    func() error { return dev.SetGain(10) },
	}
	for name, call := range calls {
		assert.ErrorIs(t, call(), spl.ErrNoBusInstance, name)
	}

	assert.Equal(t, register.DefaultAddress, dev.Address())
	bus.AssertNotCalled(t, "Tx", mock.Anything, mock.Anything, mock.Anything)
}

func TestBusErrorIsWrapped(t *testing.T) {
	cause := errors.New("nack")
	bus := mocks.NewMockBus(t)
	bus.EXPECT().Tx(register.DefaultAddress, []byte{register.RegDecibel}, mock.Anything).Return(cause).Once()

	_, err := spl.New(bus).GetLatestDecibel()
	require.Error(t, err)
	assert.ErrorIs(t, err, spl.ErrBusTransaction)
	assert.ErrorIs(t, err, cause)

	var busErr *spl.BusError
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, "read", busErr.Op)
	assert.Equal(t, register.RegDecibel, busErr.Register)
	assert.Same(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "DECIBEL")
}

func TestBusErrorNotRetried(t *testing.T) {
	bus := mocks.NewMockBus(t)
	bus.EXPECT().Tx(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()

	err := spl.New(bus).SetAvgTime(125)
	assert.ErrorIs(t, err, spl.ErrBusTransaction)
	bus.AssertNumberOfCalls(t, "Tx", 1)
}

func TestTraceEvents(t *testing.T) {
	bus := mocks.NewMockBus(t)
	expectRead(bus, register.RegDeviceID3, 0x6F, 0x49, 0xAC, 0x5A)
	bus.EXPECT().Tx(register.DefaultAddress, []byte{register.RegScratch, 0x42}, []byte(nil)).
		Return(errors.New("arbitration lost")).Once()

	rec := &recordingLogger{}
	dev := spl.New(bus, spl.WithLogger(rec), spl.WithSessionID("s1"))

	_, err := dev.GetDeviceID()
	require.NoError(t, err)
	require.Error(t, dev.SetScratch(0x42))

	events := rec.Events()
	require.Len(t, events, 3)

	read := events[1]
	assert.Equal(t, "s1", read.SessionID)
	assert.Equal(t, log.CategoryTransaction, read.Category)
	require.NotNil(t, read.Transaction)
	assert.Equal(t, log.OpRead, read.Transaction.Op)
	assert.Equal(t, register.RegDeviceID3, read.Transaction.Register)
	assert.Equal(t, []byte{0x6F, 0x49, 0xAC, 0x5A}, read.Transaction.Data)
	assert.Equal(t, 4, read.Transaction.Length)

	failed := events[2]
	assert.Equal(t, log.CategoryError, failed.Category)
	require.NotNil(t, failed.Transaction)
	assert.Equal(t, log.OpWrite, failed.Transaction.Op)
	require.NotNil(t, failed.Error)
	assert.Equal(t, log.ErrorKindBus, failed.Error.Kind)
	assert.Contains(t, failed.Error.Message, "arbitration lost")
}

func TestReleaseTrace(t *testing.T) {
	rec := &recordingLogger{}
	dev := spl.New(mocks.NewMockBus(t), spl.WithLogger(rec))

	_, _ = dev.Release()
	_, _ = dev.Release()

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, log.LifecycleReleased, events[1].Lifecycle.Kind)
	assert.Equal(t, log.CategoryError, events[2].Category)
	assert.Equal(t, log.ErrorKindNoBusInstance, events[2].Error.Kind)
}
