package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pa-spl/spl-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByOp       map[log.Op]int
	EventsByRegister map[uint8]int
	ErrorsByKind     map[log.ErrorKind]int
	Sessions         map[string]*SessionStats
	BusTime          time.Duration
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single driver session.
type SessionStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	Transactions int
	Errors       int
	Variant      string
}

// CollectStats reads the trace file and aggregates its events.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByOp:       make(map[log.Op]int),
		EventsByRegister: make(map[uint8]int),
		ErrorsByKind:     make(map[log.ErrorKind]int),
		Sessions:         make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}

		// Rejected operations carry a transaction but never reached the bus.
		if tx := event.Transaction; tx != nil && (event.Error == nil || event.Error.Kind == log.ErrorKindBus) {
			stats.EventsByOp[tx.Op]++
			stats.EventsByRegister[tx.Register]++
			stats.BusTime += tx.Duration
			sess.Transactions++
		}
		if lc := event.Lifecycle; lc != nil && lc.Variant != "" && sess.Variant == "" {
			sess.Variant = lc.Variant
		}
		if e := event.Error; e != nil {
			stats.ErrorsByKind[e.Kind]++
			sess.Errors++
		}
	}

	return stats, nil
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== SPL Bus Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Bus Time:     %s\n", formatDuration(stats.BusTime))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryTransaction, log.CategoryLifecycle, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Transactions by Op:")
	for _, op := range []log.Op{log.OpRead, log.OpWrite} {
		if count := stats.EventsByOp[op]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.EventsByRegister) > 0 {
		regs := make([]int, 0, len(stats.EventsByRegister))
		for reg := range stats.EventsByRegister {
			regs = append(regs, int(reg))
		}
		sort.Ints(regs)

		fmt.Fprintln(w, "Transactions by Register:")
		for _, reg := range regs {
			fmt.Fprintf(w, "  %-14s %d\n", registerLabel(uint8(reg))+":", stats.EventsByRegister[uint8(reg)])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, %d transactions, duration %s\n",
				shortenSessionID(s.id), s.stats.Events, s.stats.Transactions, duration)
			if s.stats.Variant != "" {
				fmt.Fprintf(w, "             Variant: %s\n", s.stats.Variant)
			}
			if s.stats.Errors > 0 {
				fmt.Fprintf(w, "             Errors: %d\n", s.stats.Errors)
			}
		}
	}

	if len(stats.ErrorsByKind) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors by Kind:")
		for _, kind := range []log.ErrorKind{log.ErrorKindBus, log.ErrorKindNoBusInstance, log.ErrorKindBufferOverflow} {
			if count := stats.ErrorsByKind[kind]; count > 0 {
				fmt.Fprintf(w, "  %-16s %d\n", kind.String()+":", count)
			}
		}
	}
}
