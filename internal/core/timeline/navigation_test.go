package timeline

import (
	"testing"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToNextEntry(t *testing.T) {
	tests := []struct {
		start   int64
		want    int64
		changed bool
	}{
		{start: 105, want: 110, changed: true},
		{start: 100, want: 110, changed: true},
		{start: 90, want: 100, changed: true},
		{start: 110, want: 110, changed: false},
		{start: 112, want: 112, changed: false},
	}

	for _, tt := range tests {
		d := newScenario(t)
		require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(tt.start))))

		assert.Equal(t, tt.changed, d.MoveToNextEntry(), "start %d", tt.start)
		assert.Equal(t, tt.want, currentNs(t, d), "start %d", tt.start)
	}
}

func TestMoveToPreviousEntry(t *testing.T) {
	tests := []struct {
		start   int64
		want    int64
		changed bool
	}{
		{start: 105, want: 105, changed: false},
		{start: 110, want: 100, changed: true},
		{start: 112, want: 100, changed: true},
		{start: 100, want: 100, changed: false},
		{start: 90, want: 90, changed: false},
	}

	for _, tt := range tests {
		d := newScenario(t)
		require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(tt.start))))

		assert.Equal(t, tt.changed, d.MoveToPreviousEntry(), "start %d", tt.start)
		assert.Equal(t, tt.want, currentNs(t, d), "start %d", tt.start)
	}
}

func TestMoveFromPositionMadeBetweenEntries(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(d.MakePositionFromActiveTrace(timestamp.NewReal(108))))

	current, ok := d.CurrentEntryFor(model.SurfaceFlinger)
	require.True(t, ok)
	assert.Equal(t, int64(100), current.Timestamp().ValueNs())

	assert.True(t, d.MoveToNextEntry())
	assert.Equal(t, int64(110), currentNs(t, d))

	require.NoError(t, d.SetPosition(d.MakePositionFromActiveTrace(timestamp.NewReal(108))))
	assert.False(t, d.MoveToPreviousEntry())
	assert.Equal(t, int64(108), currentNs(t, d))
}

func TestMovesLandOnActiveTraceEntries(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(90))))

	require.True(t, d.MoveToNextEntry())
	pos, _ := d.CurrentPosition()
	require.True(t, pos.HasEntry())
	assert.Equal(t, model.EntryRef{Type: model.SurfaceFlinger, Index: 0}, *pos.Entry)

	d.SetActiveViewTraceTypes([]model.TraceType{model.WindowManager})
	require.True(t, d.MoveToNextEntry())
	assert.Equal(t, int64(101), currentNs(t, d))
	require.True(t, d.MoveToNextEntry())
	assert.Equal(t, int64(110), currentNs(t, d))
}

func TestNavigationSaturates(t *testing.T) {
	d := newScenario(t)
	d.SetActiveViewTraceTypes([]model.TraceType{model.WindowManager})

	for i := 0; i < 10; i++ {
		d.MoveToNextEntry()
	}
	assert.Equal(t, int64(112), currentNs(t, d))
	assert.False(t, d.MoveToNextEntry())

	for i := 0; i < 10; i++ {
		d.MoveToPreviousEntry()
	}
	assert.Equal(t, int64(90), currentNs(t, d))
	assert.False(t, d.MoveToPreviousEntry())
}

func TestNavigationWalksTiedEntries(t *testing.T) {
	traces := trace.NewBuilder().
		SetTimestamps(model.Transactions, realTimestamps(100, 100, 100, 120)...).
		MustBuild()
	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))
	d.SetActiveViewTraceTypes([]model.TraceType{model.Transactions})

	var indexes []int
	for d.MoveToNextEntry() {
		pos, _ := d.CurrentPosition()
		indexes = append(indexes, pos.Entry.Index)
	}
	assert.Equal(t, []int{1, 2, 3}, indexes)

	indexes = nil
	for d.MoveToPreviousEntry() {
		pos, _ := d.CurrentPosition()
		indexes = append(indexes, pos.Entry.Index)
	}
	assert.Equal(t, []int{2, 1, 0}, indexes)
}

func TestNavigationWithoutActiveTrace(t *testing.T) {
	traces := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100, 110)...).
		MustBuild()
	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))

	assert.False(t, d.MoveToNextEntry())
	assert.False(t, d.MoveToPreviousEntry())
	assert.Equal(t, int64(100), currentNs(t, d))
}

func TestEntryForQueries(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(105))))

	current, ok := d.CurrentEntryFor(model.WindowManager)
	require.True(t, ok)
	assert.Equal(t, int64(101), current.Timestamp().ValueNs())

	next, ok := d.NextEntryFor(model.WindowManager)
	require.True(t, ok)
	assert.Equal(t, int64(110), next.Timestamp().ValueNs())

	prev, ok := d.PreviousEntryFor(model.WindowManager)
	require.True(t, ok)
	assert.Equal(t, int64(90), prev.Timestamp().ValueNs())

	_, ok = d.CurrentEntryFor(model.ProtoLog)
	assert.False(t, ok)

	_, ok = NewData().NextEntryFor(model.SurfaceFlinger)
	assert.False(t, ok)
}
