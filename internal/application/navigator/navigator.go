package navigator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-trace-timeline/internal/core/event"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timeline"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/penwyp/go-trace-timeline/internal/util"
	"github.com/penwyp/go-trace-timeline/internal/viewer"
)

// Move names accepted by Move
const (
	MoveNext     = "next"
	MovePrevious = "prev"
)

// Options configures a Navigator
type Options struct {
	Priority    model.Priority
	MaxSelected int
	// Viewers attaches one EntryViewer per loaded trace
	Viewers  bool
	Renderer viewer.Renderer
	Observer viewer.Observer
}

// Navigator wires timeline data, the event dispatcher and the entry viewers.
// Every position change is broadcast as a TracePositionUpdate so viewers stay
// in sync with the timeline.
type Navigator struct {
	opts       Options
	data       *timeline.Data
	dispatcher *event.Dispatcher
	expanded   bool

	mu      sync.Mutex
	viewers map[model.TraceType]*viewer.EntryViewer
	results chan viewer.Result
	done    chan struct{}
	once    sync.Once
}

func New(opts Options) *Navigator {
	n := &Navigator{
		opts:       opts,
		data:       timeline.NewData(),
		dispatcher: event.NewDispatcher(),
		viewers:    make(map[model.TraceType]*viewer.EntryViewer),
		results:    make(chan viewer.Result, 16),
		done:       make(chan struct{}),
	}
	n.dispatcher.Subscribe(event.HandlerFunc(n.onTimelineEvent))
	n.dispatcher.Subscribe(event.HandlerFunc(n.onViewerEvent))
	return n
}

// Dispatcher allows extra handlers to observe navigation
func (n *Navigator) Dispatcher() *event.Dispatcher {
	return n.dispatcher
}

func (n *Navigator) Data() *timeline.Data {
	return n.data
}

// Results merges the fetch results of all viewers
func (n *Navigator) Results() <-chan viewer.Result {
	return n.results
}

// Load initializes the timeline with traces. When reloading, the current
// position and the visited views are carried over if they still fit the new
// traces.
func (n *Navigator) Load(ctx context.Context, traces *trace.Traces, initial *model.TraceType) error {
	opts := timeline.InitOptions{
		Priority:         n.opts.Priority,
		MaxSelected:      n.opts.MaxSelected,
		InitialTraceType: initial,
		KeepHistory:      true,
	}
	if pos, ok := n.data.CurrentPosition(); ok {
		// entry indexes may shift between loads
		hint := model.PositionFromTimestamp(pos.Timestamp)
		opts.InitialPosition = &hint
	}

	if err := n.data.Initialize(traces, opts); err != nil {
		return fmt.Errorf("failed to initialize timeline: %w", err)
	}
	n.syncViewers()

	types := n.data.Traces().Types(n.data.Priority())
	if err := n.dispatcher.Dispatch(ctx, event.TracesLoaded{Types: types}); err != nil {
		return err
	}
	return n.broadcastPosition(ctx)
}

// ShowView makes types the active view; the last one with entries drives
// navigation.
func (n *Navigator) ShowView(ctx context.Context, types []model.TraceType) error {
	return n.dispatcher.Dispatch(ctx, event.ActiveViewChanged{TraceTypes: types})
}

// SetExpanded toggles the expanded timeline; viewers render minimized while
// it is shown.
func (n *Navigator) SetExpanded(ctx context.Context, expanded bool) error {
	n.expanded = expanded
	return n.dispatcher.Dispatch(ctx, event.ExpandedTimelineToggled{Expanded: expanded})
}

func (n *Navigator) Expanded() bool {
	return n.expanded
}

// SetPosition jumps to pos, attaching the closest entry of the active trace
func (n *Navigator) SetPosition(ctx context.Context, pos model.Position) error {
	if !pos.HasEntry() {
		pos = n.data.MakePositionFromActiveTrace(pos.Timestamp)
	}
	if err := n.data.SetPosition(pos); err != nil {
		return err
	}
	return n.broadcastPosition(ctx)
}

// Next moves to the next entry of the active trace and reports whether the
// position changed.
func (n *Navigator) Next(ctx context.Context) (bool, error) {
	return n.step(ctx, n.data.MoveToNextEntry)
}

// Previous moves to the previous entry of the active trace
func (n *Navigator) Previous(ctx context.Context) (bool, error) {
	return n.step(ctx, n.data.MoveToPreviousEntry)
}

// Move applies a named move: "next"/"n" or "prev"/"previous"/"p"
func (n *Navigator) Move(ctx context.Context, move string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(move)) {
	case "n", MoveNext:
		return n.Next(ctx)
	case "p", MovePrevious, "previous":
		return n.Previous(ctx)
	default:
		return false, fmt.Errorf("unknown move %q", move)
	}
}

func (n *Navigator) step(ctx context.Context, move func() bool) (bool, error) {
	if !move() {
		return false, nil
	}
	return true, n.broadcastPosition(ctx)
}

func (n *Navigator) broadcastPosition(ctx context.Context) error {
	pos, ok := n.data.CurrentPosition()
	if !ok {
		return nil
	}
	return n.dispatcher.Dispatch(ctx, event.TracePositionUpdate{Position: pos})
}

// Apply hands a fetch result back to its viewer
func (n *Navigator) Apply(r viewer.Result) bool {
	n.mu.Lock()
	v, ok := n.viewers[r.Type]
	n.mu.Unlock()
	if !ok {
		return false
	}
	return v.Apply(r)
}

// Step captures the outcome of a move
func (n *Navigator) Step(move string, moved bool) model.Step {
	pos, _ := n.data.CurrentPosition()
	return model.Step{Move: move, Moved: moved, Position: pos, Rows: n.data.Rows()}
}

// Frame is the timeline state plus the payload shown by the active viewer
func (n *Navigator) Frame() model.Frame {
	frame := n.data.Frame()
	active, ok := n.data.ActiveTrace()
	if !ok {
		return frame
	}

	n.mu.Lock()
	v, ok := n.viewers[active]
	n.mu.Unlock()
	if !ok {
		return frame
	}
	result, ok := v.Current()
	if !ok || result.Entry == nil {
		return frame
	}

	frame.PayloadType = active
	frame.HasPayload = true
	if result.Err != nil {
		frame.Payload = "failed to load entry: " + result.Err.Error()
	} else {
		frame.Payload = renderPayload(result.Payload)
	}
	return frame
}

func renderPayload(payload any) string {
	if payload == nil {
		return "(empty)"
	}
	data, err := sonic.ConfigStd.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}

func (n *Navigator) onTimelineEvent(_ context.Context, ev event.Event) error {
	return event.Visit(ev, event.Visitor{
		ActiveViewChanged: func(e event.ActiveViewChanged) error {
			n.data.SetActiveViewTraceTypes(e.TraceTypes)
			return nil
		},
	})
}

func (n *Navigator) onViewerEvent(ctx context.Context, ev event.Event) error {
	n.mu.Lock()
	viewers := make([]*viewer.EntryViewer, 0, len(n.viewers))
	for _, t := range n.data.Traces().Types(n.data.Priority()) {
		if v, ok := n.viewers[t]; ok {
			viewers = append(viewers, v)
		}
	}
	n.mu.Unlock()

	for _, v := range viewers {
		if err := v.OnEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// syncViewers creates viewers for new traces and swaps the trace of existing
// ones. Viewers of traces that disappeared are emptied.
func (n *Navigator) syncViewers() {
	if !n.opts.Viewers {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	for traceType, v := range n.viewers {
		if !n.data.Traces().Has(traceType) {
			empty, _ := trace.New(traceType, nil)
			v.SetTrace(empty)
		}
	}
	n.data.Traces().ForEach(n.data.Priority(), func(t *trace.Trace) {
		if v, ok := n.viewers[t.Type()]; ok {
			v.SetTrace(t)
			return
		}
		v := viewer.NewEntryViewer(t.Type(), t, n.opts.Renderer)
		if n.opts.Observer != nil {
			v.SetObserver(n.opts.Observer)
		}
		n.viewers[t.Type()] = v
		go n.forward(v)
		util.LogDebugf("Navigator: attached viewer for %s", t.Type())
	})
}

func (n *Navigator) forward(v *viewer.EntryViewer) {
	for {
		select {
		case <-n.done:
			return
		case r := <-v.Results():
			select {
			case n.results <- r:
			case <-n.done:
				return
			}
		}
	}
}

// Close cancels in-flight fetches and stops result forwarding
func (n *Navigator) Close() {
	n.once.Do(func() {
		close(n.done)
		n.mu.Lock()
		defer n.mu.Unlock()
		for _, v := range n.viewers {
			v.Close()
		}
	})
}
