package commands

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pa-spl/spl-go/pkg/log"
)

// exportRecord is the flat JSON form of an event.
type exportRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	Address    uint16    `json:"address"`
	Category   string    `json:"category"`
	Op         string    `json:"op,omitempty"`
	Register   *uint8    `json:"register,omitempty"`
	Data       string    `json:"data,omitempty"`
	Length     int       `json:"length,omitempty"`
	DurationNS int64     `json:"duration_ns,omitempty"`
	Lifecycle  string    `json:"lifecycle,omitempty"`
	OldAddress uint16    `json:"old_address,omitempty"`
	NewAddress uint16    `json:"new_address,omitempty"`
	Variant    string    `json:"variant,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	ErrorMsg   string    `json:"error,omitempty"`
	Context    string    `json:"context,omitempty"`
}

func newExportRecord(event log.Event) exportRecord {
	rec := exportRecord{
		Timestamp: event.Timestamp.UTC(),
		SessionID: event.SessionID,
		Address:   event.Address,
		Category:  event.Category.String(),
	}
	if tx := event.Transaction; tx != nil {
		reg := tx.Register
		rec.Op = tx.Op.String()
		rec.Register = &reg
		rec.Data = hex.EncodeToString(tx.Data)
		rec.Length = tx.Length
		rec.DurationNS = tx.Duration.Nanoseconds()
	}
	if lc := event.Lifecycle; lc != nil {
		rec.Lifecycle = lc.Kind.String()
		rec.OldAddress = lc.OldAddress
		rec.NewAddress = lc.NewAddress
		rec.Variant = lc.Variant
	}
	if e := event.Error; e != nil {
		rec.ErrorKind = e.Kind.String()
		rec.ErrorMsg = e.Message
		rec.Context = e.Context
	}
	return rec
}

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(newExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "address", "category", "op", "register", "data", "length", "duration_ns", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		rec := newExportRecord(event)
		reg := ""
		if rec.Register != nil {
			reg = fmt.Sprintf("0x%02X", *rec.Register)
		}
		detail := rec.Lifecycle
		if rec.ErrorKind != "" {
			detail = rec.ErrorKind + ": " + rec.ErrorMsg
		}

		row := []string{
			rec.Timestamp.Format("2006-01-02T15:04:05.000000Z"),
			rec.SessionID,
			fmt.Sprintf("0x%02X", rec.Address),
			rec.Category,
			rec.Op,
			reg,
			rec.Data,
			strconv.Itoa(rec.Length),
			strconv.FormatInt(rec.DurationNS, 10),
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
