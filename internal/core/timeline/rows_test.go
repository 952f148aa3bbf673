package timeline

import (
	"testing"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsResolveCurrentPosition(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(105))))

	rows := d.Rows()
	require.Len(t, rows, 2)

	assert.Equal(t, model.SurfaceFlinger, rows[0].Type)
	assert.True(t, rows[0].Active)
	assert.True(t, rows[0].Selected)
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, int64(100), rows[0].Timestamp.ValueNs())

	assert.Equal(t, model.WindowManager, rows[1].Type)
	assert.False(t, rows[1].Active)
	assert.Equal(t, 4, rows[1].Entries)
	assert.Equal(t, 1, rows[1].Index)
	assert.InDelta(t, 11.0/22.0, rows[1].Fraction, 1e-9)
}

func TestRowsReportNeighbourEntries(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(105))))

	rows := d.Rows()
	require.Len(t, rows, 2)

	assert.True(t, rows[0].HasNext)
	assert.Equal(t, int64(110), rows[0].Next.ValueNs())
	assert.False(t, rows[0].HasPreviousChange)
	assert.Equal(t, 2, rows[0].InSelection)

	assert.True(t, rows[1].HasNext)
	assert.Equal(t, int64(110), rows[1].Next.ValueNs())
	assert.True(t, rows[1].HasPreviousChange)
	assert.Equal(t, int64(90), rows[1].PreviousChange.ValueNs())
	assert.Equal(t, 4, rows[1].InSelection)

	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(112))))
	rows = d.Rows()
	assert.False(t, rows[0].HasNext)
	assert.False(t, rows[1].HasNext)
}

func TestRowsCountSelection(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetSelectionTimeRange(TimeRange{From: timestamp.NewReal(100), To: timestamp.NewReal(110)}))

	assert.Equal(t, 2, d.EntriesInSelection(model.SurfaceFlinger))
	assert.Equal(t, 2, d.EntriesInSelection(model.WindowManager))
	assert.Equal(t, 0, d.EntriesInSelection(model.ProtoLog))

	require.NoError(t, d.SetSelectionTimeRange(TimeRange{From: timestamp.NewReal(102), To: timestamp.NewReal(109)}))
	assert.Equal(t, 0, d.EntriesInSelection(model.SurfaceFlinger))
	assert.Equal(t, 0, d.EntriesInSelection(model.WindowManager))
}

func TestFrameFollowsSelection(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(105))))
	require.NoError(t, d.SetSelectionTimeRange(TimeRange{From: timestamp.NewReal(100), To: timestamp.NewReal(110)}))

	frame := d.Frame()
	assert.Equal(t, int64(100), frame.From.ValueNs())
	assert.Equal(t, int64(110), frame.To.ValueNs())
	assert.InDelta(t, 0.5, frame.Fraction, 1e-9)
	assert.False(t, frame.SingleTimestamp)
}

func TestFrameWithSingleTimestamp(t *testing.T) {
	traces := trace.NewBuilder().
		SetTimestamps(model.SurfaceFlinger, realTimestamps(100, 100)...).
		SetTimestamps(model.Transactions, realTimestamps(100)...).
		MustBuild()
	d := NewData()
	require.NoError(t, d.Initialize(traces, InitOptions{}))

	frame := d.Frame()
	assert.True(t, frame.SingleTimestamp)
	assert.Equal(t, 0.0, frame.Fraction)
	assert.Equal(t, 0.0, d.Fraction(timestamp.NewReal(100)))
}

func TestRowsBeforeFirstEntry(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(95))))

	rows := d.Rows()
	assert.False(t, rows[0].HasEntry())
	assert.True(t, rows[1].HasEntry())
}

func TestFraction(t *testing.T) {
	d := newScenario(t)

	assert.Equal(t, 0.0, d.Fraction(timestamp.NewReal(90)))
	assert.Equal(t, 1.0, d.Fraction(timestamp.NewReal(112)))
	assert.Equal(t, 1.0, d.Fraction(timestamp.NewReal(500)))
	assert.Equal(t, 0.0, d.Fraction(timestamp.NewReal(10)))
	assert.Equal(t, 0.0, d.Fraction(timestamp.NewElapsed(100)))
	assert.Equal(t, 0.0, NewData().Fraction(timestamp.NewReal(100)))
}

func TestFrame(t *testing.T) {
	d := newScenario(t)
	require.NoError(t, d.SetPosition(model.PositionFromTimestamp(timestamp.NewReal(101))))

	frame := d.Frame()
	assert.True(t, frame.HasPosition)
	assert.Equal(t, int64(101), frame.Position.Timestamp.ValueNs())
	assert.Equal(t, int64(90), frame.From.ValueNs())
	assert.Equal(t, int64(112), frame.To.ValueNs())
	assert.InDelta(t, 0.5, frame.Fraction, 1e-9)
	assert.False(t, frame.HasScreenRecording)
	assert.Len(t, frame.Rows, 2)

	empty := NewData().Frame()
	assert.False(t, empty.HasPosition)
	assert.Empty(t, empty.Rows)
}
