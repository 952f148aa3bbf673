package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elapsedRow(traceType model.TraceType, active bool, index int, ns int64) model.TraceRow {
	row := model.TraceRow{Type: traceType, Active: active, Index: index, Entries: 4}
	if index >= 0 {
		row.Timestamp = timestamp.NewElapsed(ns)
	}
	return row
}

func replay() []StepRecord {
	return NewStepRecords([]model.Step{
		{
			Move:     "start",
			Position: model.PositionFromTimestamp(timestamp.NewElapsed(95)),
			Rows: []model.TraceRow{
				elapsedRow(model.SurfaceFlinger, true, -1, 0),
				elapsedRow(model.WindowManager, false, 0, 90),
			},
		},
		{
			Move:     "next",
			Moved:    true,
			Position: model.PositionFromEntry(model.SurfaceFlinger, 0, timestamp.NewElapsed(100)),
			Rows: []model.TraceRow{
				elapsedRow(model.SurfaceFlinger, true, 0, 100),
				elapsedRow(model.WindowManager, false, 0, 90),
			},
		},
		{
			Move:     "prev",
			Position: model.PositionFromEntry(model.SurfaceFlinger, 0, timestamp.NewElapsed(100)),
			Rows: []model.TraceRow{
				elapsedRow(model.SurfaceFlinger, true, 0, 100),
				elapsedRow(model.WindowManager, false, 0, 90),
			},
		},
	})
}

func TestNewStepRecords(t *testing.T) {
	steps := replay()
	require.Len(t, steps, 3)

	assert.Equal(t, 0, steps[0].Step)
	assert.Equal(t, "SURFACE_FLINGER", steps[0].Active)
	assert.Equal(t, "elapsed", steps[0].Kind)
	assert.Equal(t, int64(95), steps[0].PositionNs)
	assert.Equal(t, "95ns", steps[0].Position)
	assert.False(t, steps[0].Entries[0].Found)
	assert.Equal(t, "-", steps[0].Entries[0].Cell())
	assert.Equal(t, "#0", steps[0].Entries[1].Cell())
	assert.Equal(t, int64(100), steps[1].Entries[0].TimestampNs)
}

func TestGetFormatter(t *testing.T) {
	for _, name := range []string{"", "table", "json", "csv", "summary"} {
		f, err := GetFormatter(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := GetFormatter("xml")
	assert.Error(t, err)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(&buf, replay()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.Contains(t, lines[1], "SURFACE_FLINGER")
	assert.Contains(t, lines[1], "WINDOW_MANAGER")
	assert.Contains(t, lines[3], "start")
	assert.Contains(t, lines[4], "next")
	assert.Contains(t, lines[5], "prev (stay)")
	assert.True(t, strings.HasPrefix(lines[6], "└"))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, replay()))

	var decoded []StepRecord
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "next", decoded[1].Move)
	assert.True(t, decoded[1].Moved)
	assert.Equal(t, "WINDOW_MANAGER", decoded[1].Entries[1].Trace)

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, replay()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Step", "Move", "Moved", "Active", "Kind", "Position (ns)", "SURFACE_FLINGER", "WINDOW_MANAGER"}, records[0])
	assert.Equal(t, []string{"0", "start", "false", "SURFACE_FLINGER", "elapsed", "95", "-", "#0"}, records[1])
	assert.Equal(t, []string{"1", "next", "true", "SURFACE_FLINGER", "elapsed", "100", "#0", "#0"}, records[2])
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter().Format(&buf, replay()))

	out := buf.String()
	assert.Contains(t, out, "Clock: elapsed")
	assert.Contains(t, out, "Travelled: 5ns")
	assert.Contains(t, out, "Moves: 2 (1 moved, 1 saturated)")
	assert.Contains(t, out, "SURFACE_FLINGER:       #0")

	buf.Reset()
	require.NoError(t, NewSummaryFormatter().Format(&buf, nil))
	assert.Contains(t, buf.String(), "No steps to summarize")
}
