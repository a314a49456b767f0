package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pa-spl/spl-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test"+log.FileExt)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

var testBase = time.Date(2026, 3, 1, 10, 15, 32, 123456000, time.UTC)

// testSession returns a short driver session: attach, two reads, one write,
// a failed read and a release.
func testSession() []log.Event {
	const sid = "5f0c7a2e-1111-4222-8333-944455556666"
	return []log.Event{
		{Timestamp: testBase, SessionID: sid, Address: 0x48, Category: log.CategoryLifecycle,
			Lifecycle: &log.LifecycleEvent{Kind: log.LifecycleAttached, Variant: "internal"}},
		{Timestamp: testBase.Add(10 * time.Millisecond), SessionID: sid, Address: 0x48, Category: log.CategoryTransaction,
			Transaction: &log.TransactionEvent{Op: log.OpRead, Register: 0x00, Data: []byte{0x32}, Length: 1, Duration: 150 * time.Microsecond}},
		{Timestamp: testBase.Add(20 * time.Millisecond), SessionID: sid, Address: 0x48, Category: log.CategoryTransaction,
			Transaction: &log.TransactionEvent{Op: log.OpRead, Register: 0x0A, Data: []byte{0x41}, Length: 1, Duration: 120 * time.Microsecond}},
		{Timestamp: testBase.Add(30 * time.Millisecond), SessionID: sid, Address: 0x48, Category: log.CategoryTransaction,
			Transaction: &log.TransactionEvent{Op: log.OpWrite, Register: 0x07, Data: []byte{0x00, 0x7D}, Length: 2, Duration: 200 * time.Microsecond}},
		{Timestamp: testBase.Add(40 * time.Millisecond), SessionID: sid, Address: 0x48, Category: log.CategoryError,
			Transaction: &log.TransactionEvent{Op: log.OpRead, Register: 0x0A, Length: 1},
			Error:       &log.ErrorEventData{Kind: log.ErrorKindBus, Message: "spl: bus transaction failed: read DECIBEL (0x0A): nack", Context: "READ DECIBEL (0x0A)"}},
		{Timestamp: testBase.Add(50 * time.Millisecond), SessionID: sid, Address: 0x48, Category: log.CategoryLifecycle,
			Lifecycle: &log.LifecycleEvent{Kind: log.LifecycleReleased, Variant: "internal"}},
	}
}
