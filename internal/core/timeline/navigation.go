package timeline

import (
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// CurrentEntryFor resolves the current position against one trace
func (d *Data) CurrentEntryFor(traceType model.TraceType) (*trace.Entry, bool) {
	t, ok := d.navigableTrace(traceType)
	if !ok {
		return nil, false
	}
	return trace.FindCorrespondingEntry(t, d.position)
}

// NextEntryFor is the entry after the current one in traceType. When the
// position precedes the trace, that is the first entry. Saturates at the end.
func (d *Data) NextEntryFor(traceType model.TraceType) (*trace.Entry, bool) {
	t, ok := d.navigableTrace(traceType)
	if !ok {
		return nil, false
	}
	current, ok := trace.FindCorrespondingEntry(t, d.position)
	if !ok {
		return t.FirstEntry()
	}
	return t.Entry(current.Index() + 1)
}

// PreviousEntryFor is the entry before the current one in traceType. There is
// none when the position precedes the trace or sits on its first entry.
func (d *Data) PreviousEntryFor(traceType model.TraceType) (*trace.Entry, bool) {
	t, ok := d.navigableTrace(traceType)
	if !ok {
		return nil, false
	}
	current, ok := trace.FindCorrespondingEntry(t, d.position)
	if !ok {
		return nil, false
	}
	return t.Entry(current.Index() - 1)
}

// MoveToNextEntry steps the position forward in the active trace. It reports
// whether the position changed; calling it in any other state is a no-op.
func (d *Data) MoveToNextEntry() bool {
	return d.move("next", d.NextEntryFor)
}

// MoveToPreviousEntry steps the position backward in the active trace
func (d *Data) MoveToPreviousEntry() bool {
	return d.move("previous", d.PreviousEntryFor)
}

func (d *Data) move(direction string, step func(model.TraceType) (*trace.Entry, bool)) bool {
	active, ok := d.history.Active()
	if !ok {
		util.LogDebugf("Timeline: %s ignored, no active trace", direction)
		return false
	}
	entry, ok := step(active)
	if !ok {
		util.LogDebugf("Timeline: %s ignored at %s in %s", direction, d.position, active)
		return false
	}
	d.position = entry.Position()
	util.LogDebugf("Timeline: moved to %s entry %s", direction, d.position)
	return true
}

// navigableTrace requires a held position and a non-empty trace in the
// position's clock domain.
func (d *Data) navigableTrace(traceType model.TraceType) (*trace.Trace, bool) {
	if d.state != Positioned {
		return nil, false
	}
	t, ok := d.traces.Get(traceType)
	if !ok || t.IsEmpty() || t.Kind() != d.position.Timestamp.Kind() {
		return nil, false
	}
	return t, true
}
