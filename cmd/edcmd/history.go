package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/jeffwilliams/edcmd/internal/circ"
	"github.com/jeffwilliams/edcmd/internal/expr"
)

// HistoryEntry records one command run against the buffer.
type HistoryEntry struct {
	Seq      int       `csv:"seq" json:"seq"`
	Time     time.Time `csv:"time" json:"time"`
	Command  string    `csv:"command" json:"command"`
	Micros   int64     `csv:"micros" json:"micros"`
	Rows     int       `csv:"rows" json:"rows"`
	Dot      string    `csv:"dot" json:"dot"`
	Error    string    `csv:"error,omitempty" json:"error,omitempty"`
	ErrorPos int       `csv:"error_pos" json:"error_pos"`
}

func (e HistoryEntry) Failed() bool {
	return e.Error != ""
}

// History keeps the most recent commands. Seq keeps counting after old entries
// are evicted.
type History struct {
	entries circ.Ring[HistoryEntry]
	seq     int
}

func NewHistory(size int) *History {
	return &History{entries: circ.New[HistoryEntry](size)}
}

func (h *History) Add(e HistoryEntry) HistoryEntry {
	h.seq++
	e.Seq = h.seq
	h.entries.Add(e)
	return e
}

func (h *History) Len() int {
	return h.entries.Len()
}

// Entries returns the kept entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	return h.entries.Last(h.entries.Len())
}

// newHistoryEntry describes the outcome of running command.
func newHistoryEntry(command string, start time.Time, took time.Duration, dot expr.Address, rows int, err error) HistoryEntry {
	e := HistoryEntry{
		Time:     start,
		Command:  command,
		Micros:   took.Microseconds(),
		Rows:     rows,
		Dot:      formatDot(dot),
		ErrorPos: -1,
	}
	if err != nil {
		e.Error = err.Error()
		var ee *expr.Error
		if errors.As(err, &ee) {
			e.ErrorPos = ee.Pos
		}
	}
	return e
}

func formatDot(a expr.Address) string {
	if a.NullSelection {
		return a.P1.String()
	}
	return fmt.Sprintf("%s,%s", a.P1, a.P2)
}

func (h *History) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(HistoryEntry{}); err != nil {
		return err
	}
	for _, e := range h.Entries() {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (h *History) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	entries := h.Entries()
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return enc.Encode(entries)
}

// Write dumps the history in format, which is csv or json.
func (h *History) Write(w io.Writer, format string) error {
	switch format {
	case "csv":
		return h.WriteCSV(w)
	case "json":
		return h.WriteJSON(w)
	}
	return fmt.Errorf("unknown history format %q: expected csv or json", format)
}
