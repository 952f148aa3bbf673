package trace

import (
	"sort"

	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
)

// Index is the sorted timestamp column of one trace. Lookups are binary
// searches; an empty index never finds anything.
type Index struct {
	kind   timestamp.Kind
	values []int64
}

// NewIndex expects timestamps already sorted and of a single kind
func NewIndex(timestamps []timestamp.Timestamp) *Index {
	idx := &Index{values: make([]int64, len(timestamps))}
	for i, ts := range timestamps {
		if i == 0 {
			idx.kind = ts.Kind()
		}
		idx.values[i] = ts.ValueNs()
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.values)
}

func (idx *Index) Kind() timestamp.Kind {
	return idx.kind
}

// At returns the timestamp stored at i
func (idx *Index) At(i int) timestamp.Timestamp {
	return timestamp.New(idx.kind, idx.values[i])
}

func (idx *Index) checkKind(ts timestamp.Timestamp) {
	if len(idx.values) > 0 && ts.Kind() != idx.kind {
		panic(&timestamp.IncompatibleKindError{Left: idx.kind, Right: ts.Kind()})
	}
}

// FindIndexAtOrBefore returns the last index whose timestamp is <= ts
func (idx *Index) FindIndexAtOrBefore(ts timestamp.Timestamp) (int, bool) {
	idx.checkKind(ts)
	target := ts.ValueNs()
	i := sort.Search(len(idx.values), func(i int) bool {
		return idx.values[i] > target
	})
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}

// FindIndexAtOrAfter returns the first index whose timestamp is >= ts
func (idx *Index) FindIndexAtOrAfter(ts timestamp.Timestamp) (int, bool) {
	idx.checkKind(ts)
	target := ts.ValueNs()
	i := sort.Search(len(idx.values), func(i int) bool {
		return idx.values[i] >= target
	})
	if i >= len(idx.values) {
		return 0, false
	}
	return i, true
}

// FindIndexBefore returns the last index whose timestamp is strictly < ts
func (idx *Index) FindIndexBefore(ts timestamp.Timestamp) (int, bool) {
	idx.checkKind(ts)
	target := ts.ValueNs()
	i := sort.Search(len(idx.values), func(i int) bool {
		return idx.values[i] >= target
	})
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}

// FindIndexAfter returns the first index whose timestamp is strictly > ts
func (idx *Index) FindIndexAfter(ts timestamp.Timestamp) (int, bool) {
	idx.checkKind(ts)
	target := ts.ValueNs()
	i := sort.Search(len(idx.values), func(i int) bool {
		return idx.values[i] > target
	})
	if i >= len(idx.values) {
		return 0, false
	}
	return i, true
}

// FindClosestIndex returns the index nearest to ts. On equal distance the
// earlier entry wins.
func (idx *Index) FindClosestIndex(ts timestamp.Timestamp) (int, bool) {
	after, hasAfter := idx.FindIndexAtOrAfter(ts)
	before, hasBefore := idx.FindIndexAtOrBefore(ts)

	switch {
	case !hasAfter && !hasBefore:
		return 0, false
	case !hasAfter:
		return before, true
	case !hasBefore:
		return after, true
	}

	target := ts.ValueNs()
	if target-idx.values[before] <= idx.values[after]-target {
		return before, true
	}
	return after, true
}
