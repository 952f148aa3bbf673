package trace

import (
	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// FindCorrespondingEntry resolves position against t to the entry that should
// be displayed "as of" that position. It never returns an entry from after the
// position; false means there is no data yet.
//
// An entry ref of the same trace only selects among entries sharing the
// position's timestamp. Any other ref falls back to the timestamp lookup.
func FindCorrespondingEntry(t *Trace, position model.Position) (*Entry, bool) {
	if t == nil || t.IsEmpty() {
		return nil, false
	}
	if ref := position.Entry; ref != nil && ref.Type == t.Type() {
		entry, ok := t.Entry(ref.Index)
		if ok && entry.Timestamp().ValueNs() == position.Timestamp.ValueNs() {
			return entry, true
		}
	}
	return t.FindLastLowerOrEqualEntry(position.Timestamp)
}
