package event

import (
	"fmt"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// Kind identifies the concrete event type
type Kind int

const (
	KindTracePositionUpdate Kind = iota
	KindActiveViewChanged
	KindExpandedTimelineToggled
	KindTracesLoaded
)

var kindNames = map[Kind]string{
	KindTracePositionUpdate:     "TRACE_POSITION_UPDATE",
	KindActiveViewChanged:       "ACTIVE_VIEW_CHANGED",
	KindExpandedTimelineToggled: "EXPANDED_TIMELINE_TOGGLED",
	KindTracesLoaded:            "TRACES_LOADED",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is one of the types below. The unexported method closes the set.
type Event interface {
	Kind() Kind
	isEvent()
}

// TracePositionUpdate is broadcast whenever the timeline position changes
type TracePositionUpdate struct {
	Position model.Position
}

// ActiveViewChanged carries the trace types rendered by the newly shown view
type ActiveViewChanged struct {
	TraceTypes []model.TraceType
}

type ExpandedTimelineToggled struct {
	Expanded bool
}

// TracesLoaded is sent after (re)loading dumps
type TracesLoaded struct {
	Types []model.TraceType
}

func (TracePositionUpdate) Kind() Kind     { return KindTracePositionUpdate }
func (ActiveViewChanged) Kind() Kind       { return KindActiveViewChanged }
func (ExpandedTimelineToggled) Kind() Kind { return KindExpandedTimelineToggled }
func (TracesLoaded) Kind() Kind            { return KindTracesLoaded }

func (TracePositionUpdate) isEvent()     {}
func (ActiveViewChanged) isEvent()       {}
func (ExpandedTimelineToggled) isEvent() {}
func (TracesLoaded) isEvent()            {}

// Visitor has one callback per event kind. Nil callbacks ignore that kind.
type Visitor struct {
	TracePositionUpdate     func(TracePositionUpdate) error
	ActiveViewChanged       func(ActiveViewChanged) error
	ExpandedTimelineToggled func(ExpandedTimelineToggled) error
	TracesLoaded            func(TracesLoaded) error
}

// Visit calls the visitor callback matching ev
func Visit(ev Event, v Visitor) error {
	switch e := ev.(type) {
	case TracePositionUpdate:
		if v.TracePositionUpdate != nil {
			return v.TracePositionUpdate(e)
		}
	case ActiveViewChanged:
		if v.ActiveViewChanged != nil {
			return v.ActiveViewChanged(e)
		}
	case ExpandedTimelineToggled:
		if v.ExpandedTimelineToggled != nil {
			return v.ExpandedTimelineToggled(e)
		}
	case TracesLoaded:
		if v.TracesLoaded != nil {
			return v.TracesLoaded(e)
		}
	default:
		return fmt.Errorf("unknown event type %T", ev)
	}
	return nil
}
