package timeline

import (
	"errors"
	"fmt"

	"github.com/penwyp/go-trace-timeline/internal/core/history"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// ErrNotInitialized is returned when a position is set before Initialize
var ErrNotInitialized = errors.New("timeline data is not initialized")

// State is the lifecycle stage of Data
type State int

const (
	Uninitialized State = iota
	Empty
	Positioned
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Empty:
		return "empty"
	case Positioned:
		return "positioned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// InitOptions tunes Initialize
type InitOptions struct {
	// Priority breaks ties between traces starting at the same timestamp.
	// Defaults to model.DefaultPriority().
	Priority model.Priority
	// InitialPosition is used verbatim when its kind matches the traces
	InitialPosition *model.Position
	// InitialTraceType starts at the first entry of that trace when it has one
	InitialTraceType *model.TraceType
	// MaxSelected is forwarded to the active-trace history
	MaxSelected int
	// KeepHistory carries the visited trace types over from the previous
	// load, dropping those without entries in the new traces. Otherwise the
	// history starts empty.
	KeepHistory bool
}

// TimeRange is an inclusive span of one clock domain
type TimeRange struct {
	From timestamp.Timestamp
	To   timestamp.Timestamp
}

// Data owns the loaded traces, the current position and the active-trace
// history, and implements next/previous navigation over them. It is not safe
// for concurrent use.
type Data struct {
	traces   *trace.Traces
	priority model.Priority
	history  *history.ActiveTraces

	state    State
	kind     timestamp.Kind
	position model.Position

	firstEntry *trace.Entry
	lastEntry  *trace.Entry
	selection  *TimeRange
}

// NewData returns uninitialized timeline data
func NewData() *Data {
	d := &Data{}
	d.history = history.NewActiveTraces(history.Options{Accept: d.hasEntries})
	d.Clear()
	return d
}

// Initialize loads traces and picks the initial position. On error the
// previous state is kept.
func (d *Data) Initialize(traces *trace.Traces, opts InitOptions) error {
	priority := opts.Priority
	if len(priority) == 0 {
		priority = model.DefaultPriority()
	}

	loaded := trace.NewTraces()
	traces.ForEach(priority, loaded.Set)
	if wm, ok := loaded.Get(model.WindowManager); ok && isWindowManagerDump(wm) {
		util.LogDebug("Timeline: skipping WindowManager dump without timestamp")
		loaded.Delete(model.WindowManager)
	}

	var first, last *trace.Entry
	var kindErr error
	loaded.ForEach(priority, func(t *trace.Trace) {
		head, ok := t.FirstEntry()
		if !ok {
			return
		}
		tail, _ := t.LastEntry()

		if first != nil && head.Timestamp().Kind() != first.Timestamp().Kind() && kindErr == nil {
			kindErr = fmt.Errorf("%s trace: %w", t.Type(), &timestamp.IncompatibleKindError{
				Left:  first.Timestamp().Kind(),
				Right: head.Timestamp().Kind(),
			})
			return
		}
		// ForEach runs in priority order, so strict comparisons keep the
		// higher-priority trace on ties.
		if first == nil || head.Timestamp().ValueNs() < first.Timestamp().ValueNs() {
			first = head
		}
		if last == nil || tail.Timestamp().ValueNs() > last.Timestamp().ValueNs() {
			last = tail
		}
	})
	if kindErr != nil {
		return kindErr
	}

	d.reset()
	d.traces = loaded
	d.priority = priority
	d.firstEntry = first
	d.lastEntry = last
	d.history.SetMaxSelected(opts.MaxSelected)
	if opts.KeepHistory {
		d.history.Prune(d.hasEntries)
	} else {
		d.history.Reset()
	}

	if first == nil {
		d.state = Empty
		util.LogInfof("Timeline initialized with %d traces and no entries", loaded.Len())
		return nil
	}

	d.kind = first.Timestamp().Kind()
	d.position = d.initialPosition(opts)
	d.state = Positioned
	util.LogInfof("Timeline initialized with %d traces, kind=%s, position=%s", loaded.Len(), d.kind, d.position)
	return nil
}

func (d *Data) initialPosition(opts InitOptions) model.Position {
	if opts.InitialPosition != nil {
		if opts.InitialPosition.Timestamp.Kind() == d.kind {
			return *opts.InitialPosition
		}
		util.LogWarnf("Timeline: ignoring initial position with %s timestamp on %s traces",
			opts.InitialPosition.Timestamp.Kind(), d.kind)
	}
	if opts.InitialTraceType != nil {
		if t, ok := d.traces.Get(*opts.InitialTraceType); ok {
			if entry, ok := t.FirstEntry(); ok {
				return entry.Position()
			}
		}
		util.LogDebugf("Timeline: initial trace %s has no entries, using earliest entry", *opts.InitialTraceType)
	}
	return d.firstEntry.Position()
}

// isWindowManagerDump matches the single, untimestamped WindowManager state
// dump that would otherwise pin the timeline start to zero.
func isWindowManagerDump(t *trace.Trace) bool {
	if t.Type() != model.WindowManager || t.Len() != 1 {
		return false
	}
	entry, _ := t.FirstEntry()
	return entry.Timestamp().IsZero()
}

func (d *Data) hasEntries(traceType model.TraceType) bool {
	t, ok := d.traces.Get(traceType)
	return ok && !t.IsEmpty()
}

// Clear returns to the uninitialized state
func (d *Data) Clear() {
	d.reset()
	d.history.Reset()
}

// reset drops everything but the active-trace history
func (d *Data) reset() {
	d.traces = trace.NewTraces()
	d.priority = model.DefaultPriority()
	d.state = Uninitialized
	d.kind = timestamp.Real
	d.position = model.Position{}
	d.firstEntry = nil
	d.lastEntry = nil
	d.selection = nil
}

func (d *Data) State() State {
	return d.state
}

func (d *Data) Traces() *trace.Traces {
	return d.traces
}

func (d *Data) Priority() model.Priority {
	return d.priority
}

// TimestampKind is the clock domain of the loaded entries
func (d *Data) TimestampKind() (timestamp.Kind, bool) {
	return d.kind, d.firstEntry != nil
}

// CurrentPosition returns the held position
func (d *Data) CurrentPosition() (model.Position, bool) {
	if d.state != Positioned {
		return model.Position{}, false
	}
	return d.position, true
}

// SetPosition stores pos verbatim; resolution against traces happens lazily
// when viewers ask for their corresponding entry.
func (d *Data) SetPosition(pos model.Position) error {
	if d.state == Uninitialized {
		return ErrNotInitialized
	}
	if err := d.checkKind(pos.Timestamp); err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}
	d.position = pos
	d.state = Positioned
	return nil
}

func (d *Data) checkKind(ts timestamp.Timestamp) error {
	if d.firstEntry != nil && ts.Kind() != d.kind {
		return &timestamp.IncompatibleKindError{Left: d.kind, Right: ts.Kind()}
	}
	return nil
}

// SetActiveViewTraceTypes records the trace types of the view being shown
func (d *Data) SetActiveViewTraceTypes(types []model.TraceType) {
	d.history.Update(types)
}

// ActiveTrace is the trace that drives next/previous navigation
func (d *Data) ActiveTrace() (model.TraceType, bool) {
	return d.history.Active()
}

// SelectedTraces lists the visited trace types in first-seen order
func (d *Data) SelectedTraces() []model.TraceType {
	return d.history.Selected()
}

// HasTimestamps reports whether any loaded trace has entries
func (d *Data) HasTimestamps() bool {
	return d.firstEntry != nil
}

func (d *Data) HasMoreThanOneDistinctTimestamp() bool {
	return d.firstEntry != nil && d.firstEntry.Timestamp().ValueNs() != d.lastEntry.Timestamp().ValueNs()
}

// FirstEntry is the earliest entry across all traces
func (d *Data) FirstEntry() (*trace.Entry, bool) {
	return d.firstEntry, d.firstEntry != nil
}

// LastEntry is the latest entry across all traces
func (d *Data) LastEntry() (*trace.Entry, bool) {
	return d.lastEntry, d.lastEntry != nil
}

// FullTimeRange spans the first to the last entry across all traces
func (d *Data) FullTimeRange() (TimeRange, bool) {
	if d.firstEntry == nil {
		return TimeRange{}, false
	}
	return TimeRange{From: d.firstEntry.Timestamp(), To: d.lastEntry.Timestamp()}, true
}

// SelectionTimeRange defaults to the full range until one is set
func (d *Data) SelectionTimeRange() (TimeRange, bool) {
	if d.selection != nil {
		return *d.selection, true
	}
	return d.FullTimeRange()
}

func (d *Data) SetSelectionTimeRange(r TimeRange) error {
	if d.firstEntry == nil {
		return ErrNotInitialized
	}
	if err := d.checkKind(r.From); err != nil {
		return fmt.Errorf("failed to set selection: %w", err)
	}
	if err := d.checkKind(r.To); err != nil {
		return fmt.Errorf("failed to set selection: %w", err)
	}
	if r.From.ValueNs() > r.To.ValueNs() {
		r.From, r.To = r.To, r.From
	}
	d.selection = &r
	return nil
}

// MakePositionFromActiveTrace attaches the active trace's entry at or before
// ts, keeping ts as the position's timestamp.
func (d *Data) MakePositionFromActiveTrace(ts timestamp.Timestamp) model.Position {
	t, ok := d.activeTrace()
	if !ok || ts.Kind() != t.Kind() {
		return model.PositionFromTimestamp(ts)
	}
	entry, ok := t.FindLastLowerOrEqualEntry(ts)
	if !ok {
		return model.PositionFromTimestamp(ts)
	}
	return model.Position{Timestamp: ts, Entry: &model.EntryRef{Type: entry.Type(), Index: entry.Index()}}
}

// SnapToActiveTrace is the position of the active trace's entry closest to
// ts; on equal distance the earlier entry wins.
func (d *Data) SnapToActiveTrace(ts timestamp.Timestamp) (model.Position, bool) {
	t, ok := d.activeTrace()
	if !ok || ts.Kind() != t.Kind() {
		return model.Position{}, false
	}
	entry, ok := t.FindClosestEntry(ts)
	if !ok {
		return model.Position{}, false
	}
	return entry.Position(), true
}

// ScreenRecordingTimeSeconds maps a position to the offset, in seconds, of the
// corresponding screen-recording frame from the first recorded frame.
func (d *Data) ScreenRecordingTimeSeconds(pos model.Position) (float64, bool) {
	t, ok := d.traces.Get(model.ScreenRecording)
	if !ok || t.IsEmpty() || pos.Timestamp.Kind() != t.Kind() {
		return 0, false
	}
	entry, ok := trace.FindCorrespondingEntry(t, pos)
	if !ok {
		return 0, false
	}
	first, _ := t.FirstEntry()
	return float64(entry.Timestamp().Sub(first.Timestamp())) / 1e9, true
}

func (d *Data) activeTrace() (*trace.Trace, bool) {
	active, ok := d.history.Active()
	if !ok {
		return nil, false
	}
	t, ok := d.traces.Get(active)
	if !ok || t.IsEmpty() {
		return nil, false
	}
	return t, true
}
