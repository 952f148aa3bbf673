package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// Formatter writes a navigation replay
type Formatter interface {
	Format(w io.Writer, steps []StepRecord) error
}

// StepRecord is the output form of one replayed move
type StepRecord struct {
	Step       int           `json:"step"`
	Move       string        `json:"move"`
	Moved      bool          `json:"moved"`
	Active     string        `json:"active,omitempty"`
	Kind       string        `json:"kind"`
	PositionNs int64         `json:"position_ns"`
	Position   string        `json:"position"`
	Entries    []EntryRecord `json:"entries"`
}

// EntryRecord is where one trace stands at a step
type EntryRecord struct {
	Trace       string `json:"trace"`
	Found       bool   `json:"found"`
	Index       int    `json:"index"`
	TimestampNs int64  `json:"timestamp_ns,omitempty"`
	InSelection int    `json:"in_selection"`

	// NextNs is the first entry strictly after the position
	NextNs int64 `json:"next_ns,omitempty"`
	// PreviousChangeNs is the last entry strictly before TimestampNs
	PreviousChangeNs int64 `json:"previous_change_ns,omitempty"`
}

// Cell is the compact table and CSV form of an entry
func (e EntryRecord) Cell() string {
	if !e.Found {
		return "-"
	}
	return fmt.Sprintf("#%d", e.Index)
}

// NewStepRecords flattens replayed steps for output
func NewStepRecords(steps []model.Step) []StepRecord {
	records := make([]StepRecord, 0, len(steps))
	for i, step := range steps {
		record := StepRecord{
			Step:       i,
			Move:       step.Move,
			Moved:      step.Moved,
			Kind:       step.Position.Timestamp.Kind().String(),
			PositionNs: step.Position.Timestamp.ValueNs(),
			Position:   step.Position.Timestamp.String(),
			Entries:    make([]EntryRecord, 0, len(step.Rows)),
		}
		for _, row := range step.Rows {
			if row.Active {
				record.Active = row.Type.String()
			}
			entry := EntryRecord{
				Trace:       row.Type.String(),
				Found:       row.HasEntry(),
				Index:       row.Index,
				InSelection: row.InSelection,
			}
			if row.HasEntry() {
				entry.TimestampNs = row.Timestamp.ValueNs()
			}
			if row.HasNext {
				entry.NextNs = row.Next.ValueNs()
			}
			if row.HasPreviousChange {
				entry.PreviousChangeNs = row.PreviousChange.ValueNs()
			}
			record.Entries = append(record.Entries, entry)
		}
		records = append(records, record)
	}
	return records
}

// traceColumns lists the traces of the first record; every step of a replay
// reports the same traces.
func traceColumns(steps []StepRecord) []string {
	if len(steps) == 0 {
		return nil
	}
	columns := make([]string, len(steps[0].Entries))
	for i, entry := range steps[0].Entries {
		columns[i] = entry.Trace
	}
	return columns
}

// GetFormatter returns the formatter for an output name
func GetFormatter(name string) (Formatter, error) {
	switch name {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (table, json, csv, summary)", name)
	}
}
