package trace

import (
	"sort"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// Traces maps trace types to loaded traces. It is filled once at load time
// and only read afterwards.
type Traces struct {
	traces map[model.TraceType]*Trace
}

func NewTraces() *Traces {
	return &Traces{traces: make(map[model.TraceType]*Trace)}
}

func (ts *Traces) Set(t *Trace) {
	ts.traces[t.Type()] = t
}

func (ts *Traces) Get(traceType model.TraceType) (*Trace, bool) {
	t, ok := ts.traces[traceType]
	return t, ok
}

func (ts *Traces) Has(traceType model.TraceType) bool {
	_, ok := ts.traces[traceType]
	return ok
}

func (ts *Traces) Delete(traceType model.TraceType) {
	delete(ts.traces, traceType)
}

func (ts *Traces) Len() int {
	return len(ts.traces)
}

// Types lists the loaded trace types in priority order
func (ts *Traces) Types(priority model.Priority) []model.TraceType {
	types := make([]model.TraceType, 0, len(ts.traces))
	for t := range ts.traces {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return priority.Less(types[i], types[j])
	})
	return types
}

// ForEach visits traces in priority order
func (ts *Traces) ForEach(priority model.Priority, fn func(*Trace)) {
	for _, t := range ts.Types(priority) {
		fn(ts.traces[t])
	}
}
