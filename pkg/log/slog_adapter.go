package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see bus traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.Uint64("addr", uint64(event.Address)),
		slog.String("category", event.Category.String()),
	}

	if tx := event.Transaction; tx != nil {
		attrs = append(attrs,
			slog.String("op", tx.Op.String()),
			slog.Uint64("reg", uint64(tx.Register)),
			slog.Int("len", tx.Length),
		)
		if len(tx.Data) > 0 {
			attrs = append(attrs, slog.String("data", hex.EncodeToString(tx.Data)))
		}
		if tx.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", tx.Duration))
		}
	}
	if lc := event.Lifecycle; lc != nil {
		attrs = append(attrs, slog.String("lifecycle", lc.Kind.String()))
		if lc.Kind == LifecycleAddressChanged {
			attrs = append(attrs,
				slog.Uint64("old_addr", uint64(lc.OldAddress)),
				slog.Uint64("new_addr", uint64(lc.NewAddress)),
			)
		}
		if lc.Variant != "" {
			attrs = append(attrs, slog.String("variant", lc.Variant))
		}
	}
	if e := event.Error; e != nil {
		attrs = append(attrs,
			slog.String("error_kind", e.Kind.String()),
			slog.String("error_msg", e.Message),
		)
		if e.Context != "" {
			attrs = append(attrs, slog.String("error_context", e.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "bus", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
