package trace

import (
	"testing"

	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/stretchr/testify/assert"
)

func realTimestamps(values ...int64) []timestamp.Timestamp {
	out := make([]timestamp.Timestamp, len(values))
	for i, v := range values {
		out[i] = timestamp.NewReal(v)
	}
	return out
}

type lookupCase struct {
	name    string
	target  int64
	wantIdx int
	wantOK  bool
}

func runLookups(t *testing.T, lookup func(timestamp.Timestamp) (int, bool), cases []lookupCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := lookup(timestamp.NewReal(tt.target))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantIdx, idx)
			}
		})
	}
}

func TestIndexFindIndexAtOrBefore(t *testing.T) {
	idx := NewIndex(realTimestamps(90, 101, 110, 112))

	runLookups(t, idx.FindIndexAtOrBefore, []lookupCase{
		{"before first", 80, 0, false},
		{"exact first", 90, 0, true},
		{"between", 105, 1, true},
		{"exact middle", 110, 2, true},
		{"exact last", 112, 3, true},
		{"after last", 200, 3, true},
	})
}

func TestIndexFindIndexAtOrAfter(t *testing.T) {
	idx := NewIndex(realTimestamps(90, 101, 110, 112))

	runLookups(t, idx.FindIndexAtOrAfter, []lookupCase{
		{"before first", 80, 0, true},
		{"exact first", 90, 0, true},
		{"between", 105, 2, true},
		{"exact last", 112, 3, true},
		{"after last", 200, 0, false},
	})
}

func TestIndexStrictLookups(t *testing.T) {
	idx := NewIndex(realTimestamps(100, 110, 110, 120))

	runLookups(t, idx.FindIndexBefore, []lookupCase{
		{"first has no lower", 100, 0, false},
		{"below tie group", 110, 0, true},
		{"last of ties", 115, 2, true},
	})
	runLookups(t, idx.FindIndexAfter, []lookupCase{
		{"above tie group", 110, 3, true},
		{"first of ties", 105, 1, true},
		{"last has no greater", 120, 0, false},
	})
}

func TestIndexTieBreak(t *testing.T) {
	idx := NewIndex(realTimestamps(100, 100, 100))

	before, ok := idx.FindIndexAtOrBefore(timestamp.NewReal(100))
	assert.True(t, ok)
	assert.Equal(t, 2, before, "at-or-before returns the last of the ties")

	after, ok := idx.FindIndexAtOrAfter(timestamp.NewReal(100))
	assert.True(t, ok)
	assert.Equal(t, 0, after, "at-or-after returns the first of the ties")
}

func TestIndexBracketingAgreesOnUniqueTimestamps(t *testing.T) {
	values := []int64{3, 8, 15, 16, 23, 42}
	idx := NewIndex(realTimestamps(values...))

	for i, v := range values {
		before, okBefore := idx.FindIndexAtOrBefore(timestamp.NewReal(v))
		after, okAfter := idx.FindIndexAtOrAfter(timestamp.NewReal(v))
		assert.True(t, okBefore)
		assert.True(t, okAfter)
		assert.Equal(t, i, before)
		assert.Equal(t, before, after)
	}
}

func TestIndexEmpty(t *testing.T) {
	idx := NewIndex(nil)
	target := timestamp.NewElapsed(10)

	assert.Equal(t, 0, idx.Len())
	for _, lookup := range []func(timestamp.Timestamp) (int, bool){
		idx.FindIndexAtOrBefore,
		idx.FindIndexAtOrAfter,
		idx.FindIndexBefore,
		idx.FindIndexAfter,
		idx.FindClosestIndex,
	} {
		_, ok := lookup(target)
		assert.False(t, ok)
	}
}

func TestIndexFindClosestIndex(t *testing.T) {
	idx := NewIndex(realTimestamps(100, 110, 130))

	runLookups(t, idx.FindClosestIndex, []lookupCase{
		{"before first", 10, 0, true},
		{"nearer lower", 104, 0, true},
		{"midpoint prefers lower", 105, 0, true},
		{"nearer upper", 106, 1, true},
		{"after last", 999, 2, true},
	})
}

func TestIndexPanicsOnIncompatibleKind(t *testing.T) {
	idx := NewIndex(realTimestamps(100))
	assert.Panics(t, func() {
		idx.FindIndexAtOrBefore(timestamp.NewElapsed(100))
	})
}
