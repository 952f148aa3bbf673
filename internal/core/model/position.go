package model

import (
	"fmt"

	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
)

// EntryRef points at one entry of one loaded trace
type EntryRef struct {
	Type  TraceType
	Index int
}

// Position is the moment the viewer is showing. It always has a timestamp and
// carries the entry it was resolved from when it came out of a trace lookup.
type Position struct {
	Timestamp timestamp.Timestamp
	Entry     *EntryRef
}

// PositionFromTimestamp builds a position that is not tied to any entry
func PositionFromTimestamp(ts timestamp.Timestamp) Position {
	return Position{Timestamp: ts}
}

// PositionFromEntry builds a position resolved from a trace entry
func PositionFromEntry(traceType TraceType, index int, ts timestamp.Timestamp) Position {
	return Position{
		Timestamp: ts,
		Entry:     &EntryRef{Type: traceType, Index: index},
	}
}

func (p Position) HasEntry() bool {
	return p.Entry != nil
}

// Equal compares timestamps and entry refs. Positions from different clock
// domains are never equal.
func (p Position) Equal(other Position) bool {
	if p.Timestamp.Kind() != other.Timestamp.Kind() || p.Timestamp.ValueNs() != other.Timestamp.ValueNs() {
		return false
	}
	if p.Entry == nil || other.Entry == nil {
		return p.Entry == nil && other.Entry == nil
	}
	return *p.Entry == *other.Entry
}

func (p Position) String() string {
	if p.Entry == nil {
		return p.Timestamp.String()
	}
	return fmt.Sprintf("%s (%s#%d)", p.Timestamp, p.Entry.Type, p.Entry.Index)
}
