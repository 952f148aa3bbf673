package scrub

import (
	"context"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/penwyp/go-trace-timeline/internal/data/loader"
	"github.com/penwyp/go-trace-timeline/internal/presentation/interaction"
)

// DataSource discovers and loads trace dumps
type DataSource interface {
	// Load scans for dumps and builds one trace per trace type
	Load(ctx context.Context) (*trace.Traces, loader.Stats, error)
	// Matches reports whether a changed path is a dump file
	Matches(path string) bool
	// BaseDir is the directory being scanned
	BaseDir() string
}

// DisplayController handles terminal display operations
type DisplayController interface {
	EnterAlternateScreen()
	ExitAlternateScreen()
	// RenderWithState renders a frame with the given interaction state
	RenderWithState(frame *model.Frame, state model.InteractionState)
}

// InputHandler processes keyboard input
type InputHandler interface {
	Events() <-chan interaction.KeyEvent
	Close() error
}

// FileMonitor watches for dump changes
type FileMonitor interface {
	Events() <-chan model.FileEvent
	Close() error
}

// RowSortStrategy orders the rows of a frame
type RowSortStrategy interface {
	Sort(rows []model.TraceRow)
	Cycle() interaction.SortField
}
