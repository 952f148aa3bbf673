package interaction

import (
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyboardReaderParseInput(t *testing.T) {
	kr := newKeyboardReader(strings.NewReader(""))

	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{name: "regular char", input: []byte{'n'}, expected: &KeyEvent{Key: 'n', Type: KeyChar}},
		{name: "ctrl+c", input: []byte{3}, expected: &KeyEvent{Key: KeyCtrlC, Type: KeyChar}},
		{name: "escape", input: []byte{27}, expected: &KeyEvent{Key: 27, Type: KeyEscape}},
		{name: "right arrow", input: []byte{27, '[', 'C'}, expected: &KeyEvent{Type: KeyRight}},
		{name: "left arrow", input: []byte{27, '[', 'D'}, expected: &KeyEvent{Type: KeyLeft}},
		{name: "up arrow", input: []byte{27, '[', 'A'}, expected: &KeyEvent{Type: KeyUp}},
		{name: "down arrow", input: []byte{27, '[', 'B'}, expected: &KeyEvent{Type: KeyDown}},
		{name: "unknown sequence", input: []byte{27, '[', 'Z'}, expected: nil},
		{name: "alt key", input: []byte{27, 'x'}, expected: nil},
		{name: "empty", input: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kr.parseInput(tt.input))
		})
	}
}

func TestKeyboardReaderDeliversEvents(t *testing.T) {
	kr := newKeyboardReader(strings.NewReader("n"))
	go kr.readInput()

	select {
	case ev := <-kr.Events():
		assert.Equal(t, KeyEvent{Key: 'n', Type: KeyChar}, ev)
	case <-time.After(time.Second):
		t.Fatal("no key event delivered")
	}
	require.NoError(t, kr.Close())
}

func TestRowSorter(t *testing.T) {
	rows := func() []model.TraceRow {
		return []model.TraceRow{
			{Type: model.WindowManager, Entries: 4},
			{Type: model.ProtoLog, Entries: 9},
			{Type: model.SurfaceFlinger, Entries: 4},
		}
	}
	types := func(rows []model.TraceRow) []model.TraceType {
		out := make([]model.TraceType, len(rows))
		for i, r := range rows {
			out[i] = r.Type
		}
		return out
	}

	sorter := NewRowSorter(nil)
	assert.Equal(t, SortByPriority, sorter.Field())
	r := rows()
	sorter.Sort(r)
	assert.Equal(t, []model.TraceType{model.SurfaceFlinger, model.WindowManager, model.ProtoLog}, types(r))

	assert.Equal(t, SortByName, sorter.Cycle())
	r = rows()
	sorter.Sort(r)
	assert.Equal(t, []model.TraceType{model.ProtoLog, model.SurfaceFlinger, model.WindowManager}, types(r))

	assert.Equal(t, SortByEntries, sorter.Cycle())
	r = rows()
	sorter.Sort(r)
	assert.Equal(t, []model.TraceType{model.ProtoLog, model.SurfaceFlinger, model.WindowManager}, types(r),
		"equal entry counts fall back to priority")

	assert.Equal(t, SortByPriority, sorter.Cycle())
	assert.Equal(t, "priority", sorter.Field().String())
}
