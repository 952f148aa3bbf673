package model

import (
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
)

// Layout styles of the scrub screen
const (
	LayoutExpanded = iota
	LayoutMinimal
)

// FileEvent is a change to a dump file on disk
type FileEvent struct {
	Path      string
	Operation string
}

// InteractionState is the UI state owned by the scrub orchestrator
type InteractionState struct {
	ShowHelp      bool
	IsLoading     bool
	LayoutStyle   int    // LayoutExpanded or LayoutMinimal
	StatusMessage string // shown until the next key press
}

// Expanded reports whether the timeline is shown in full
func (s InteractionState) Expanded() bool {
	return s.LayoutStyle != LayoutMinimal
}

// LayoutParam carries display preferences into the layout strategies
type LayoutParam struct {
	Timezone   string
	TimeFormat string // "12h" or "24h"
}

// TraceRow is where one trace stands relative to the current position
type TraceRow struct {
	Type     TraceType
	Entries  int
	Active   bool
	Selected bool // visited in the active-trace history
	// Index is the entry at-or-before the position, -1 when there is none
	Index     int
	Timestamp timestamp.Timestamp
	// Fraction places the entry on the selection time range, in [0, 1]
	Fraction float64

	// Next is the first entry strictly after the position
	Next    timestamp.Timestamp
	HasNext bool
	// PreviousChange is the last entry strictly before Timestamp
	PreviousChange    timestamp.Timestamp
	HasPreviousChange bool
	// InSelection counts the entries inside the selection time range
	InSelection int
}

// HasEntry reports whether the trace resolves the position to an entry
func (r TraceRow) HasEntry() bool {
	return r.Index >= 0
}

// Frame is one render of the scrub screen
type Frame struct {
	Position    Position
	HasPosition bool
	From        timestamp.Timestamp
	To          timestamp.Timestamp
	// Fraction places the position on the From..To range, in [0, 1]
	Fraction float64
	Rows     []TraceRow
	// SingleTimestamp is set when every loaded entry shares one timestamp
	SingleTimestamp bool

	// Payload is the rendered entry of the active trace's viewer
	Payload     string
	PayloadType TraceType
	HasPayload  bool

	// ScreenRecordingSeconds is the recording offset of the position, if any
	ScreenRecordingSeconds float64
	HasScreenRecording     bool
}

// ActiveRow returns the row of the active trace
func (f *Frame) ActiveRow() (TraceRow, bool) {
	for _, row := range f.Rows {
		if row.Active {
			return row, true
		}
	}
	return TraceRow{}, false
}

// Step is one replayed navigation move
type Step struct {
	Move     string
	Moved    bool
	Position Position
	Rows     []TraceRow
}
