package timeline

import (
	"errors"
	"testing"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realTimestamps(values ...int64) []timestamp.Timestamp {
	out := make([]timestamp.Timestamp, len(values))
	for i, v := range values {
		out[i] = timestamp.NewReal(v)
	}
	return out
}

// newScenario loads SurfaceFlinger [100, 110] and WindowManager
// [90, 101, 110, 112] with SurfaceFlinger as the active trace.
func newScenario(t *testing.T) *Data {
	t.Helper()
	traces := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100, 110)...).
		SetTimestamps(model.WindowManager, realTimestamps(90, 101, 110, 112)...).
		MustBuild()

	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))
	d.SetActiveViewTraceTypes([]model.TraceType{model.SurfaceFlinger})
	return d
}

func currentNs(t *testing.T, d *Data) int64 {
	t.Helper()
	pos, ok := d.CurrentPosition()
	require.True(t, ok)
	return pos.Timestamp.ValueNs()
}

func TestInitializePicksEarliestEntry(t *testing.T) {
	d := newScenario(t)

	assert.Equal(t, Positioned, d.State())
	assert.Equal(t, int64(90), currentNs(t, d))

	kind, ok := d.TimestampKind()
	assert.True(t, ok)
	assert.Equal(t, timestamp.Real, kind)

	full, ok := d.FullTimeRange()
	require.True(t, ok)
	assert.Equal(t, int64(90), full.From.ValueNs())
	assert.Equal(t, int64(112), full.To.ValueNs())
	assert.True(t, d.HasTimestamps())
	assert.True(t, d.HasMoreThanOneDistinctTimestamp())
}

func TestInitializeTieBreaksByPriority(t *testing.T) {
	traces := trace.NewBuilder().
		SetTimestamps(model.ProtoLog, realTimestamps(50, 60)...).
		SetTimestamps(model.Transactions, realTimestamps(50, 70)...).
		MustBuild()

	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))
	pos, _ := d.CurrentPosition()
	require.True(t, pos.HasEntry())
	assert.Equal(t, model.Transactions, pos.Entry.Type)

	require.NoError(t, d.Initialize(traces, InitOptions{
		Priority: model.Priority{model.ProtoLog, model.Transactions},
	}))
	pos, _ = d.CurrentPosition()
	assert.Equal(t, model.ProtoLog, pos.Entry.Type)
}

func TestInitializeHints(t *testing.T) {
	traces := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100, 110)...).
		SetTimestamps(model.WindowManager, realTimestamps(90, 101)...).
		SetTimestamps(model.ProtoLog).
		MustBuild()

	sf := model.SurfaceFlinger
	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{InitialTraceType: &sf}))
	assert.Equal(t, int64(100), currentNs(t, d))

	hint := model.PositionFromTimestamp(timestamp.NewReal(105))
	require.NoError(t, d.Initialize(traces, InitOptions{InitialPosition: &hint, InitialTraceType: &sf}))
	assert.Equal(t, int64(105), currentNs(t, d))

	wrongKind := model.PositionFromTimestamp(timestamp.NewElapsed(105))
	require.NoError(t, d.Initialize(traces, InitOptions{InitialPosition: &wrongKind}))
	assert.Equal(t, int64(90), currentNs(t, d))

	empty := model.ProtoLog
	require.NoError(t, d.Initialize(traces, InitOptions{InitialTraceType: &empty}))
	assert.Equal(t, int64(90), currentNs(t, d))
}

func TestInitializeRejectsMixedKinds(t *testing.T) {
	d := newScenario(t)

	mixed := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100)...).
		SetTimestamps(model.Transactions, timestamp.NewElapsed(5)).
		MustBuild()

	err := d.Initialize(mixed, InitOptions{})
	assert.True(t, errors.Is(err, timestamp.ErrIncompatibleKind))
	assert.Equal(t, int64(90), currentNs(t, d), "failed initialize keeps the previous state")
}

func TestInitializeDropsWindowManagerDump(t *testing.T) {
	traces := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100, 110)...).
		SetTimestamps(model.WindowManager, realTimestamps(0)...).
		MustBuild()

	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))
	assert.False(t, d.Traces().Has(model.WindowManager))
	assert.Equal(t, int64(100), currentNs(t, d))
}

func TestInitializeWithoutEntries(t *testing.T) {
	traces := trace.NewBuilder().SetTimestamps(model.SurfaceFlinger).MustBuild()

	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))
	assert.Equal(t, Empty, d.State())
	assert.False(t, d.HasTimestamps())
	assert.False(t, d.HasMoreThanOneDistinctTimestamp())

	_, ok := d.CurrentPosition()
	assert.False(t, ok)
	_, ok = d.FullTimeRange()
	assert.False(t, ok)

	d.SetActiveViewTraceTypes([]model.TraceType{model.SurfaceFlinger})
	_, ok = d.ActiveTrace()
	assert.False(t, ok, "traces without entries never become active")
	assert.False(t, d.MoveToNextEntry())
	assert.False(t, d.MoveToPreviousEntry())

	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewElapsed(5))))
	assert.Equal(t, Positioned, d.State(), "an empty timeline accepts a position")
	assert.Equal(t, int64(5), currentNs(t, d))
}

func TestSetPosition(t *testing.T) {
	d := NewData()
	assert.ErrorIs(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(1))), ErrNotInitialized)

	d = newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(105))))
	assert.Equal(t, int64(105), currentNs(t, d))

	err := d.SetPosition(model.PositionFromTimestamp(timestamp.NewElapsed(105)))
	assert.ErrorIs(t, err, timestamp.ErrIncompatibleKind)
	assert.Equal(t, int64(105), currentNs(t, d))
}

func TestSelectionTimeRange(t *testing.T) {
	d := newScenario(t)

	sel, ok := d.SelectionTimeRange()
	require.True(t, ok)
	assert.Equal(t, int64(90), sel.From.ValueNs())

	require.NoError(t, d.SetSelectionTimeRange(TimeRange{From: timestamp.NewReal(110), To: timestamp.NewReal(100)}))
	sel, _ = d.SelectionTimeRange()
	assert.Equal(t, int64(100), sel.From.ValueNs())
	assert.Equal(t, int64(110), sel.To.ValueNs())

	err := d.SetSelectionTimeRange(TimeRange{From: timestamp.NewElapsed(1), To: timestamp.NewElapsed(2)})
	assert.ErrorIs(t, err, timestamp.ErrIncompatibleKind)
}

func TestMakePositionFromActiveTrace(t *testing.T) {
	d := newScenario(t)

	pos := d.MakePositionFromActiveTrace(timestamp.NewReal(104))
	require.True(t, pos.HasEntry())
	assert.Equal(t, int64(104), pos.Timestamp.ValueNs())
	assert.Equal(t, model.EntryRef{Type: model.SurfaceFlinger, Index: 0}, *pos.Entry)

	pos = d.MakePositionFromActiveTrace(timestamp.NewReal(108))
	assert.Equal(t, int64(108), pos.Timestamp.ValueNs())
	assert.Equal(t, 0, pos.Entry.Index, "never points past the timestamp")
	require.NoError(t, d.SetPosition(pos))
	entry, ok := d.CurrentEntryFor(model.SurfaceFlinger)
	require.True(t, ok)
	assert.Equal(t, int64(100), entry.Timestamp().ValueNs())

	pos = d.MakePositionFromActiveTrace(timestamp.NewReal(110))
	assert.Equal(t, 1, pos.Entry.Index)

	pos = d.MakePositionFromActiveTrace(timestamp.NewReal(95))
	assert.False(t, pos.HasEntry())

	d.Clear()
	pos = d.MakePositionFromActiveTrace(timestamp.NewReal(106))
	assert.False(t, pos.HasEntry())
}

func TestScreenRecordingTimeSeconds(t *testing.T) {
	traces := trace.NewBuilder().
		SetTimestamps(model.ScreenRecording, realTimestamps(1_000_000_000, 1_500_000_000, 3_000_000_000)...).
		SetTimestamps(model.SurfaceFlinger, realTimestamps(900_000_000)...).
		MustBuild()

	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))

	seconds, ok := d.ScreenRecordingTimeSeconds(model.PositionFromTimestamp(timestamp.NewReal(2_000_000_000)))
	require.True(t, ok)
	assert.InDelta(t, 0.5, seconds, 1e-9)

	_, ok = d.ScreenRecordingTimeSeconds(model.PositionFromTimestamp(timestamp.NewReal(500)))
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	d := newScenario(t)
	d.Clear()

	assert.Equal(t, Uninitialized, d.State())
	assert.Equal(t, 0, d.Traces().Len())
	assert.Empty(t, d.SelectedTraces())
	_, ok := d.CurrentPosition()
	assert.False(t, ok)
}

func TestSnapToActiveTrace(t *testing.T) {
	d := newScenario(t)

	pos, ok := d.SnapToActiveTrace(timestamp.NewReal(108))
	require.True(t, ok)
	assert.Equal(t, int64(110), pos.Timestamp.ValueNs())
	assert.Equal(t, model.EntryRef{Type: model.SurfaceFlinger, Index: 1}, *pos.Entry)

	pos, ok = d.SnapToActiveTrace(timestamp.NewReal(105))
	require.True(t, ok)
	assert.Equal(t, int64(100), pos.Timestamp.ValueNs(), "earlier entry wins on equal distance")

	_, ok = d.SnapToActiveTrace(timestamp.NewElapsed(105))
	assert.False(t, ok)

	d.Clear()
	_, ok = d.SnapToActiveTrace(timestamp.NewReal(105))
	assert.False(t, ok)
}

func TestReinitializeKeepsOrResetsHistory(t *testing.T) {
	d := newScenario(t)
	d.SetActiveViewTraceTypes([]model.TraceType{model.WindowManager})

	onlySF := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100, 110, 120)...).
		SetTimestamps(model.WindowManager).
		MustBuild()
	require.NoError(t, d.Initialize(onlySF, InitOptions{KeepHistory: true}))

	assert.Equal(t, []model.TraceType{model.SurfaceFlinger}, d.SelectedTraces(), "types without entries are pruned")
	active, ok := d.ActiveTrace()
	require.True(t, ok)
	assert.Equal(t, model.SurfaceFlinger, active)

	require.NoError(t, d.Initialize(onlySF, InitOptions{}))
	assert.Empty(t, d.SelectedTraces())
	_, ok = d.ActiveTrace()
	assert.False(t, ok)
}

func TestReinitializeAppliesMaxSelected(t *testing.T) {
	d := newScenario(t)
	d.SetActiveViewTraceTypes([]model.TraceType{model.WindowManager})

	traces := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100, 110)...).
		SetTimestamps(model.WindowManager, realTimestamps(90, 101)...).
		MustBuild()
	require.NoError(t, d.Initialize(traces, InitOptions{KeepHistory: true, MaxSelected: 1}))
	assert.Equal(t, []model.TraceType{model.WindowManager}, d.SelectedTraces())
}

