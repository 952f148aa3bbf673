package trace

import (
	"fmt"
	"sort"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
)

// Builder assembles a Traces collection. Records are stable-sorted by
// timestamp before the traces are built, so duplicates keep input order.
type Builder struct {
	records map[model.TraceType][]Record
	order   []model.TraceType
}

func NewBuilder() *Builder {
	return &Builder{records: make(map[model.TraceType][]Record)}
}

// SetTimestamps replaces the entries of traceType with payload-less entries
func (b *Builder) SetTimestamps(traceType model.TraceType, timestamps ...timestamp.Timestamp) *Builder {
	records := make([]Record, len(timestamps))
	for i, ts := range timestamps {
		records[i] = Record{Timestamp: ts}
	}
	return b.SetEntries(traceType, records...)
}

// SetEntries replaces the entries of traceType
func (b *Builder) SetEntries(traceType model.TraceType, records ...Record) *Builder {
	if _, exists := b.records[traceType]; !exists {
		b.order = append(b.order, traceType)
	}
	b.records[traceType] = append([]Record(nil), records...)
	return b
}

// Append adds entries to traceType, creating the trace if needed
func (b *Builder) Append(traceType model.TraceType, records ...Record) *Builder {
	if _, exists := b.records[traceType]; !exists {
		b.order = append(b.order, traceType)
	}
	b.records[traceType] = append(b.records[traceType], records...)
	return b
}

func (b *Builder) Build() (*Traces, error) {
	traces := NewTraces()
	for _, traceType := range b.order {
		records := b.records[traceType]
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Timestamp.ValueNs() < records[j].Timestamp.ValueNs()
		})
		t, err := New(traceType, records)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s trace: %w", traceType, err)
		}
		traces.Set(t)
	}
	return traces, nil
}

// MustBuild panics on error; intended for fixtures
func (b *Builder) MustBuild() *Traces {
	traces, err := b.Build()
	if err != nil {
		panic(err)
	}
	return traces
}
