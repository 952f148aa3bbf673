package timeline

import (
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
)

// Rows reports, for every loaded trace in priority order, the entry the
// current position resolves to.
func (d *Data) Rows() []model.TraceRow {
	active, hasActive := d.history.Active()
	selected := make(map[model.TraceType]bool)
	for _, t := range d.history.Selected() {
		selected[t] = true
	}

	rows := make([]model.TraceRow, 0, d.traces.Len())
	d.traces.ForEach(d.priority, func(t *trace.Trace) {
		row := model.TraceRow{
			Type:     t.Type(),
			Entries:  t.Len(),
			Active:   hasActive && active == t.Type(),
			Selected: selected[t.Type()],
			Index:    -1,
		}
		if entry, ok := d.CurrentEntryFor(t.Type()); ok {
			row.Index = entry.Index()
			row.Timestamp = entry.Timestamp()
			row.Fraction = d.Fraction(entry.Timestamp())
			if prev, ok := t.FindLastLowerEntry(entry.Timestamp()); ok {
				row.PreviousChange = prev.Timestamp()
				row.HasPreviousChange = true
			}
		}
		if _, ok := d.navigableTrace(t.Type()); ok {
			if next, ok := t.FindFirstGreaterEntry(d.position.Timestamp); ok {
				row.Next = next.Timestamp()
				row.HasNext = true
			}
		}
		row.InSelection = d.EntriesInSelection(t.Type())
		rows = append(rows, row)
	})
	return rows
}

// EntriesInSelection counts the entries of traceType inside the selection
// time range, bounds included.
func (d *Data) EntriesInSelection(traceType model.TraceType) int {
	t, ok := d.traces.Get(traceType)
	if !ok || t.IsEmpty() {
		return 0
	}
	sel, ok := d.SelectionTimeRange()
	if !ok || sel.From.Kind() != t.Kind() {
		return 0
	}
	first, ok := t.FindFirstGreaterOrEqualEntry(sel.From)
	if !ok {
		return 0
	}
	last, ok := t.FindLastLowerOrEqualEntry(sel.To)
	if !ok || last.Index() < first.Index() {
		return 0
	}
	return last.Index() - first.Index() + 1
}

// Fraction places ts on the selection time range, clamped to [0, 1]. When
// every entry shares one timestamp everything maps to 0.
func (d *Data) Fraction(ts timestamp.Timestamp) float64 {
	if !d.HasMoreThanOneDistinctTimestamp() || ts.Kind() != d.kind {
		return 0
	}
	sel, ok := d.SelectionTimeRange()
	if !ok {
		return 0
	}
	span := sel.To.ValueNs() - sel.From.ValueNs()
	if span <= 0 {
		return 0
	}
	f := float64(ts.ValueNs()-sel.From.ValueNs()) / float64(span)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Frame assembles the navigation part of a scrub-screen render
func (d *Data) Frame() model.Frame {
	frame := model.Frame{Rows: d.Rows()}
	if pos, ok := d.CurrentPosition(); ok {
		frame.Position = pos
		frame.HasPosition = true
		frame.Fraction = d.Fraction(pos.Timestamp)
		if seconds, ok := d.ScreenRecordingTimeSeconds(pos); ok {
			frame.ScreenRecordingSeconds = seconds
			frame.HasScreenRecording = true
		}
	}
	if sel, ok := d.SelectionTimeRange(); ok {
		frame.From = sel.From
		frame.To = sel.To
		frame.SingleTimestamp = !d.HasMoreThanOneDistinctTimestamp()
	}
	return frame
}
