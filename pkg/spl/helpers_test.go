package spl_test

import (
	"sync"

	"github.com/pa-spl/spl-go/pkg/log"
	"github.com/pa-spl/spl-go/pkg/register"
	"github.com/pa-spl/spl-go/pkg/spl/mocks"
	"github.com/stretchr/testify/mock"
)

// expectRead sets up one read of len(data) bytes starting at reg.
func expectRead(bus *mocks.MockBus, reg uint8, data ...byte) *mock.Call {
	return bus.EXPECT().
		Tx(register.DefaultAddress, []byte{reg}, mock.MatchedBy(func(r []byte) bool { return len(r) == len(data) })).
		RunAndReturn(func(_ uint16, _ []byte, r []byte) error {
			copy(r, data)
			return nil
		}).
		Once()
}

// expectWrite sets up one write of the exact payload.
func expectWrite(bus *mocks.MockBus, payload ...byte) *mock.Call {
	return bus.EXPECT().Tx(register.DefaultAddress, payload, []byte(nil)).Return(nil).Once()
}

// recordingLogger captures trace events.
type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(event log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingLogger) Events() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event(nil), r.events...)
}

// memBus is a register file that honours auto-increment. It stands in for a
// device in round-trip tests.
type memBus struct {
	regs [256]byte
	txs  int
}

func (m *memBus) Tx(_ uint16, w, r []byte) error {
	m.txs++
	if len(w) == 0 {
		return nil
	}
	ptr := w[0]
	for _, b := range w[1:] {
		m.regs[ptr] = b
		ptr++
	}
	for i := range r {
		r[i] = m.regs[ptr]
		ptr++
	}
	return nil
}
