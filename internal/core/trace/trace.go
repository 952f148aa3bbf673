package trace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
)

var (
	// ErrUnsorted is returned when entries are not in ascending timestamp order
	ErrUnsorted = errors.New("trace entries are not sorted by timestamp")
	// ErrMixedKinds is returned when one trace mixes clock domains
	ErrMixedKinds = errors.New("trace entries mix timestamp kinds")
	// ErrNoPayload is returned by entries built without a payload loader
	ErrNoPayload = errors.New("trace entry has no payload")
)

// PayloadLoader materializes the payload of one entry on demand
type PayloadLoader func(ctx context.Context) (any, error)

// Record is the input form of one entry
type Record struct {
	Timestamp timestamp.Timestamp
	Payload   PayloadLoader
}

// Trace is an immutable, timestamp-sorted sequence of entries of one type
type Trace struct {
	traceType model.TraceType
	index     *Index
	entries   []*Entry
}

// New builds a trace from records that must already be sorted
func New(traceType model.TraceType, records []Record) (*Trace, error) {
	timestamps := make([]timestamp.Timestamp, len(records))
	for i, rec := range records {
		timestamps[i] = rec.Timestamp
		if i == 0 {
			continue
		}
		prev := records[i-1].Timestamp
		if prev.Kind() != rec.Timestamp.Kind() {
			return nil, fmt.Errorf("%s entry %d: %w", traceType, i, ErrMixedKinds)
		}
		if prev.ValueNs() > rec.Timestamp.ValueNs() {
			return nil, fmt.Errorf("%s entry %d: %w", traceType, i, ErrUnsorted)
		}
	}

	tr := &Trace{
		traceType: traceType,
		index:     NewIndex(timestamps),
		entries:   make([]*Entry, len(records)),
	}
	for i, rec := range records {
		tr.entries[i] = &Entry{
			trace:  tr,
			index:  i,
			ts:     rec.Timestamp,
			loader: rec.Payload,
		}
	}
	return tr, nil
}

func (t *Trace) Type() model.TraceType {
	return t.traceType
}

func (t *Trace) Len() int {
	return len(t.entries)
}

func (t *Trace) IsEmpty() bool {
	return len(t.entries) == 0
}

// Kind is the clock domain of the entries; meaningless for empty traces
func (t *Trace) Kind() timestamp.Kind {
	return t.index.Kind()
}

func (t *Trace) Index() *Index {
	return t.index
}

// Entry returns the entry at i, or false when i is out of range
func (t *Trace) Entry(i int) (*Entry, bool) {
	if i < 0 || i >= len(t.entries) {
		return nil, false
	}
	return t.entries[i], true
}

func (t *Trace) FirstEntry() (*Entry, bool) {
	return t.Entry(0)
}

func (t *Trace) LastEntry() (*Entry, bool) {
	return t.Entry(len(t.entries) - 1)
}

// FindLastLowerOrEqualEntry is the entry at-or-before ts
func (t *Trace) FindLastLowerOrEqualEntry(ts timestamp.Timestamp) (*Entry, bool) {
	return t.lookup(t.index.FindIndexAtOrBefore(ts))
}

// FindFirstGreaterOrEqualEntry is the entry at-or-after ts
func (t *Trace) FindFirstGreaterOrEqualEntry(ts timestamp.Timestamp) (*Entry, bool) {
	return t.lookup(t.index.FindIndexAtOrAfter(ts))
}

func (t *Trace) FindLastLowerEntry(ts timestamp.Timestamp) (*Entry, bool) {
	return t.lookup(t.index.FindIndexBefore(ts))
}

func (t *Trace) FindFirstGreaterEntry(ts timestamp.Timestamp) (*Entry, bool) {
	return t.lookup(t.index.FindIndexAfter(ts))
}

func (t *Trace) FindClosestEntry(ts timestamp.Timestamp) (*Entry, bool) {
	return t.lookup(t.index.FindClosestIndex(ts))
}

func (t *Trace) lookup(i int, ok bool) (*Entry, bool) {
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Entry is one timestamped snapshot of a trace. The payload is decoded the
// first time Value succeeds and cached afterwards.
type Entry struct {
	trace  *Trace
	index  int
	ts     timestamp.Timestamp
	loader PayloadLoader

	mu     sync.Mutex
	loaded bool
	value  any
}

func (e *Entry) Trace() *Trace {
	return e.trace
}

func (e *Entry) Type() model.TraceType {
	return e.trace.traceType
}

func (e *Entry) Index() int {
	return e.index
}

func (e *Entry) Timestamp() timestamp.Timestamp {
	return e.ts
}

// Position is the trace position that resolves to exactly this entry
func (e *Entry) Position() model.Position {
	return model.PositionFromEntry(e.trace.traceType, e.index, e.ts)
}

// Value returns the payload. A failed load is not cached so it can be retried.
func (e *Entry) Value(ctx context.Context) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return e.value, nil
	}
	if e.loader == nil {
		return nil, ErrNoPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := e.loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s entry %d: %w", e.trace.traceType, e.index, err)
	}
	e.value = value
	e.loaded = true
	return value, nil
}
