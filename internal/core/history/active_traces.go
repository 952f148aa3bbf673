package history

import (
	"fmt"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// Options configures ActiveTraces
type Options struct {
	// MaxSelected caps the selected list; the oldest types are evicted first.
	// Zero keeps every visited type.
	MaxSelected int
	// Accept rejects trace types that cannot be navigated (e.g. no entries).
	// Nil accepts everything.
	Accept func(model.TraceType) bool
}

// ActiveTraces remembers which trace types the user has viewed, in first-seen
// order, and which one currently drives single-step navigation.
type ActiveTraces struct {
	opts      Options
	selected  []model.TraceType
	active    model.TraceType
	hasActive bool
}

func NewActiveTraces(opts Options) *ActiveTraces {
	return &ActiveTraces{opts: opts}
}

// Update records the trace types of the view that just became active. A nil
// or empty update means the view is not ready and changes nothing.
func (h *ActiveTraces) Update(viewTraceTypes []model.TraceType) {
	if len(viewTraceTypes) == 0 {
		return
	}

	for _, traceType := range viewTraceTypes {
		if h.opts.Accept != nil && !h.opts.Accept(traceType) {
			util.LogDebugf("Active trace history: ignoring %s (not navigable)", traceType)
			continue
		}
		if !h.contains(traceType) {
			h.selected = append(h.selected, traceType)
		}
		h.active = traceType
		h.hasActive = true
	}

	h.evict()
}

// Active is the trace whose entries define next/previous steps
func (h *ActiveTraces) Active() (model.TraceType, bool) {
	return h.active, h.hasActive
}

// Selected returns a copy of the visited trace types in first-seen order
func (h *ActiveTraces) Selected() []model.TraceType {
	out := make([]model.TraceType, len(h.selected))
	copy(out, h.selected)
	return out
}

// Prune removes trace types for which keep returns false. If the active
// trace is removed, the most recent remaining selection takes over.
func (h *ActiveTraces) Prune(keep func(model.TraceType) bool) {
	kept := h.selected[:0]
	for _, traceType := range h.selected {
		if keep(traceType) {
			kept = append(kept, traceType)
		}
	}
	h.selected = kept

	if h.hasActive && !keep(h.active) {
		h.hasActive = false
		if n := len(h.selected); n > 0 {
			h.active = h.selected[n-1]
			h.hasActive = true
		}
	}
}

// SetMaxSelected changes the cap, evicting the oldest types if needed
func (h *ActiveTraces) SetMaxSelected(max int) {
	h.opts.MaxSelected = max
	h.evict()
}

func (h *ActiveTraces) Reset() {
	h.selected = nil
	h.hasActive = false
}

func (h *ActiveTraces) String() string {
	active := "none"
	if h.hasActive {
		active = h.active.String()
	}
	return fmt.Sprintf("active=%s selected=%v", active, h.selected)
}

func (h *ActiveTraces) contains(traceType model.TraceType) bool {
	for _, t := range h.selected {
		if t == traceType {
			return true
		}
	}
	return false
}

func (h *ActiveTraces) evict() {
	if h.opts.MaxSelected <= 0 || len(h.selected) <= h.opts.MaxSelected {
		return
	}
	drop := len(h.selected) - h.opts.MaxSelected
	h.selected = append([]model.TraceType(nil), h.selected[drop:]...)
}
