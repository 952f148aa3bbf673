package viewer

import (
	"context"
	"sync"

	"github.com/penwyp/go-trace-timeline/internal/core/event"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// Result is the outcome of one payload fetch
type Result struct {
	Type     model.TraceType
	Position model.Position
	Entry    *trace.Entry
	Payload  any
	Err      error
}

// Renderer receives payloads that are still current
type Renderer interface {
	Render(v *EntryViewer, r Result)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(v *EntryViewer, r Result)

func (f RendererFunc) Render(v *EntryViewer, r Result) {
	f(v, r)
}

// Observer counts what the viewer does with fetch results
type Observer interface {
	ResultApplied(traceType model.TraceType)
	ResultDiscarded(traceType model.TraceType)
}

// EntryViewer shows the entry of one trace that corresponds to the timeline
// position. Payloads are fetched in the background; a result is rendered only
// if no newer position was requested meanwhile.
type EntryViewer struct {
	traceType model.TraceType
	renderer  Renderer
	observer  Observer
	results   chan Result

	mu        sync.Mutex
	trace     *trace.Trace
	requested *model.Position
	cancel    context.CancelFunc
	minimized bool
	current   *Result
}

func NewEntryViewer(traceType model.TraceType, t *trace.Trace, renderer Renderer) *EntryViewer {
	return &EntryViewer{
		traceType: traceType,
		trace:     t,
		renderer:  renderer,
		results:   make(chan Result, 8),
	}
}

// SetObserver installs an observer; nil disables observation
func (v *EntryViewer) SetObserver(o Observer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observer = o
}

func (v *EntryViewer) Type() model.TraceType {
	return v.traceType
}

// Results delivers finished fetches; feed them back through Apply
func (v *EntryViewer) Results() <-chan Result {
	return v.results
}

func (v *EntryViewer) Minimized() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.minimized
}

// Current is the last rendered result
func (v *EntryViewer) Current() (Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return Result{}, false
	}
	return *v.current, true
}

// SetTrace swaps the trace after a reload and forgets the rendered entry
func (v *EntryViewer) SetTrace(t *trace.Trace) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopLocked()
	v.trace = t
	v.current = nil
	v.requested = nil
}

// OnEvent implements event.Handler
func (v *EntryViewer) OnEvent(ctx context.Context, ev event.Event) error {
	return event.Visit(ev, event.Visitor{
		TracePositionUpdate: func(e event.TracePositionUpdate) error {
			v.request(ctx, e.Position)
			return nil
		},
		ExpandedTimelineToggled: func(e event.ExpandedTimelineToggled) error {
			v.mu.Lock()
			v.minimized = e.Expanded
			v.mu.Unlock()
			return nil
		},
	})
}

func (v *EntryViewer) request(parent context.Context, pos model.Position) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopLocked()
	v.requested = &pos

	entry, ok := trace.FindCorrespondingEntry(v.trace, pos)
	if !ok {
		v.current = &Result{Type: v.traceType, Position: pos}
		v.render(*v.current)
		return
	}

	ctx, cancel := context.WithCancel(parent)
	v.cancel = cancel
	go func() {
		payload, err := entry.Value(ctx)
		if ctx.Err() != nil {
			return
		}
		select {
		case v.results <- Result{Type: v.traceType, Position: pos, Entry: entry, Payload: payload, Err: err}:
		case <-ctx.Done():
		}
	}()
}

// Apply renders r if it is the answer to the latest requested position and
// reports whether it did.
func (v *EntryViewer) Apply(r Result) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.requested == nil || !v.requested.Equal(r.Position) {
		util.LogDebugf("Viewer %s: discarding stale result for %s", v.traceType, r.Position)
		if v.observer != nil {
			v.observer.ResultDiscarded(v.traceType)
		}
		return false
	}
	if r.Err != nil {
		util.LogWarnf("Viewer %s: failed to load entry: %v", v.traceType, r.Err)
	}
	v.current = &r
	if v.observer != nil {
		v.observer.ResultApplied(v.traceType)
	}
	v.render(r)
	return true
}

// Close cancels any in-flight fetch
func (v *EntryViewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopLocked()
}

func (v *EntryViewer) stopLocked() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *EntryViewer) render(r Result) {
	if v.renderer != nil {
		v.renderer.Render(v, r)
	}
}
