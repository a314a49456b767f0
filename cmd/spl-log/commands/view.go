// Package commands implements the spl-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/pa-spl/spl-go/pkg/log"
	"github.com/pa-spl/spl-go/pkg/register"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] @addr CATEGORY label
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	var label string
	switch {
	case event.Transaction != nil:
		label = event.Transaction.Op.String() + " " + registerLabel(event.Transaction.Register)
	case event.Lifecycle != nil:
		label = event.Lifecycle.Kind.String()
	case event.Error != nil:
		label = event.Error.Kind.String()
	default:
		label = "Unknown"
	}

	fmt.Fprintf(w, "%s [%s] @0x%02X %-11s %s\n", ts, session, event.Address, event.Category.String(), label)

	if event.Transaction != nil {
		formatTransactionDetails(w, event.Transaction)
	}
	if event.Lifecycle != nil {
		formatLifecycleDetails(w, event.Lifecycle)
	}
	if event.Error != nil {
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func registerLabel(reg uint8) string {
	if name := register.Name(reg); name != "" {
		return fmt.Sprintf("%s(0x%02X)", name, reg)
	}
	return fmt.Sprintf("0x%02X", reg)
}

func formatTransactionDetails(w io.Writer, tx *log.TransactionEvent) {
	fmt.Fprintf(w, "  Length: %d\n", tx.Length)
	if len(tx.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s\n", hex.EncodeToString(tx.Data))
	}
	if tx.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(tx.Duration))
	}
}

func formatLifecycleDetails(w io.Writer, lc *log.LifecycleEvent) {
	if lc.Kind == log.LifecycleAddressChanged {
		fmt.Fprintf(w, "  0x%02X -> 0x%02X\n", lc.OldAddress, lc.NewAddress)
	}
	if lc.Variant != "" {
		fmt.Fprintf(w, "  Variant: %s\n", lc.Variant)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
