package model

import (
	"fmt"
	"strings"
)

// TraceType identifies the subsystem a trace was captured from
type TraceType int

const (
	SurfaceFlinger TraceType = iota
	WindowManager
	Transactions
	Transitions
	ProtoLog
	ScreenRecording
	InputMethodClients
	ViewCapture
	EventLog
	WmTransition
	ShellTransition
)

var traceTypeNames = map[TraceType]string{
	SurfaceFlinger:     "SURFACE_FLINGER",
	WindowManager:      "WINDOW_MANAGER",
	Transactions:       "TRANSACTIONS",
	Transitions:        "TRANSITIONS",
	ProtoLog:           "PROTO_LOG",
	ScreenRecording:    "SCREEN_RECORDING",
	InputMethodClients: "INPUT_METHOD_CLIENTS",
	ViewCapture:        "VIEW_CAPTURE",
	EventLog:           "EVENT_LOG",
	WmTransition:       "WM_TRANSITION",
	ShellTransition:    "SHELL_TRANSITION",
}

func (t TraceType) String() string {
	if name, ok := traceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TraceType(%d)", int(t))
}

// ParseTraceType accepts canonical names case-insensitively, with '-' or '_'
func ParseTraceType(name string) (TraceType, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for t, n := range traceTypeNames {
		if n == normalized {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trace type %q", name)
}

// ParseTraceTypes parses a list of names, stopping at the first invalid one
func ParseTraceTypes(names []string) ([]TraceType, error) {
	types := make([]TraceType, 0, len(names))
	for _, name := range names {
		t, err := ParseTraceType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// Priority is a total order over trace types, used to break ties when
// several traces start at the same timestamp.
type Priority []TraceType

// DefaultPriority is the order used when no explicit priority is configured
func DefaultPriority() Priority {
	return Priority{
		ScreenRecording,
		SurfaceFlinger,
		WindowManager,
		Transactions,
		Transitions,
		WmTransition,
		ShellTransition,
		ProtoLog,
		InputMethodClients,
		ViewCapture,
		EventLog,
	}
}

// Rank returns the position of t; types missing from the order rank last
// and are ordered among themselves by their numeric value.
func (p Priority) Rank(t TraceType) int {
	for i, candidate := range p {
		if candidate == t {
			return i
		}
	}
	return len(p) + int(t)
}

// Less reports whether a sorts before b
func (p Priority) Less(a, b TraceType) bool {
	return p.Rank(a) < p.Rank(b)
}
