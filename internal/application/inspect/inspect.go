package inspect

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/application/navigator"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/data/loader"
	"github.com/penwyp/go-trace-timeline/internal/data/scanner"
	"github.com/penwyp/go-trace-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// Config contains configuration for the inspect command
type Config struct {
	DataDir      string
	Extensions   []string
	Active       string   // trace type to navigate
	Start        string   // initial position, empty for the default
	Snap         bool     // move Start onto the closest entry of the active trace
	From         string   // selection range start, empty for the first entry
	To           string   // selection range end, empty for the last entry
	Moves        []string // next/prev moves to replay
	Kind         string   // auto, real or elapsed
	Priority     []string
	OutputFormat string
	Timezone     string
	Concurrency  int
}

// Inspector replays navigation moves over trace dumps without a terminal UI
type Inspector struct {
	config  *Config
	scanner *scanner.DumpScanner
	loader  *loader.Loader
}

func New(config *Config) *Inspector {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{scanner.DefaultExtension}
	}
	if config.Kind == "" {
		config.Kind = loader.KindAuto
	}

	return &Inspector{
		config:  config,
		scanner: scanner.NewDumpScanner(config.DataDir, config.Extensions...),
		loader: loader.NewLoader(loader.Options{
			Concurrency: config.Concurrency,
			Kind:        config.Kind,
		}),
	}
}

// Run loads the dumps, replays the moves and writes one record per step
func (i *Inspector) Run(ctx context.Context, w io.Writer) error {
	startTime := time.Now()
	util.LogInfo("Starting trace timeline inspection...")

	out, err := formatter.GetFormatter(i.config.OutputFormat)
	if err != nil {
		return err
	}
	priority, err := model.ParseTraceTypes(i.config.Priority)
	if err != nil {
		return fmt.Errorf("invalid priority: %w", err)
	}
	var active *model.TraceType
	if i.config.Active != "" {
		t, err := model.ParseTraceType(i.config.Active)
		if err != nil {
			return fmt.Errorf("invalid active trace: %w", err)
		}
		active = &t
	}
	if err := util.InitializeTimeProvider(i.config.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	// Phase 1: Scan files
	scanStart := time.Now()
	files, err := i.scanner.Scan()
	if err != nil {
		return fmt.Errorf("failed to scan dumps: %w", err)
	}
	util.LogDebugf("Phase 1 - Dump scan duration: %v, found %d files", time.Since(scanStart), len(files))
	if len(files) == 0 {
		return fmt.Errorf("no dump files found in %s", i.scanner.BaseDir())
	}

	// Phase 2: Parse dumps
	traces, stats, err := i.loader.Load(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to load dumps: %w", err)
	}
	util.LogDebugf("Phase 2 - Parse duration: %v, %d entries", stats.Duration, stats.Entries)

	// Phase 3: Position the timeline
	nav := navigator.New(navigator.Options{Priority: model.Priority(priority)})
	defer nav.Close()

	if err := nav.Load(ctx, traces, active); err != nil {
		return fmt.Errorf("failed to initialize timeline: %w", err)
	}
	if active != nil {
		if err := nav.ShowView(ctx, []model.TraceType{*active}); err != nil {
			return fmt.Errorf("failed to show %s: %w", *active, err)
		}
	}
	if i.config.Start != "" {
		ts, err := i.parseTimestamp(nav, "start", i.config.Start)
		if err != nil {
			return err
		}
		pos := model.PositionFromTimestamp(ts)
		if i.config.Snap {
			snapped, ok := nav.Data().SnapToActiveTrace(ts)
			if !ok {
				return fmt.Errorf("cannot snap start without an active trace")
			}
			pos = snapped
		}
		if err := nav.SetPosition(ctx, pos); err != nil {
			return fmt.Errorf("failed to set start position: %w", err)
		}
	}
	if err := i.applySelection(nav); err != nil {
		return err
	}
	if !nav.Data().HasMoreThanOneDistinctTimestamp() {
		util.LogWarn("All entries share one timestamp, moves will not travel")
	}

	// Phase 4: Replay moves
	replayStart := time.Now()
	steps := make([]model.Step, 0, len(i.config.Moves)+1)
	steps = append(steps, nav.Step("start", false))
	for _, move := range i.config.Moves {
		move = strings.TrimSpace(move)
		if move == "" {
			continue
		}
		moved, err := nav.Move(ctx, move)
		if err != nil {
			return err
		}
		steps = append(steps, nav.Step(move, moved))
	}
	util.LogDebugf("Phase 4 - Replayed %d moves in %v", len(steps)-1, time.Since(replayStart))

	// Phase 5: Format and output
	if err := out.Format(w, formatter.NewStepRecords(steps)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	util.LogDebugf("Total duration: %v", time.Since(startTime))
	return nil
}

func (i *Inspector) parseTimestamp(nav *navigator.Navigator, name, value string) (timestamp.Timestamp, error) {
	kind, ok := nav.Data().TimestampKind()
	if !ok {
		return timestamp.Timestamp{}, fmt.Errorf("cannot use --%s on an empty timeline", name)
	}
	ts, err := timestamp.Parse(kind, value)
	if err != nil {
		return timestamp.Timestamp{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return ts, nil
}

// applySelection narrows the selection range; open ends keep the full range
func (i *Inspector) applySelection(nav *navigator.Navigator) error {
	if i.config.From == "" && i.config.To == "" {
		return nil
	}
	data := nav.Data()
	sel, ok := data.FullTimeRange()
	if !ok {
		return fmt.Errorf("cannot select a range on an empty timeline")
	}
	if i.config.From != "" {
		ts, err := i.parseTimestamp(nav, "from", i.config.From)
		if err != nil {
			return err
		}
		sel.From = ts
	}
	if i.config.To != "" {
		ts, err := i.parseTimestamp(nav, "to", i.config.To)
		if err != nil {
			return err
		}
		sel.To = ts
	}
	if err := data.SetSelectionTimeRange(sel); err != nil {
		return fmt.Errorf("failed to set selection: %w", err)
	}
	util.LogDebugf("Selection range: %s..%s", sel.From, sel.To)
	return nil
}
