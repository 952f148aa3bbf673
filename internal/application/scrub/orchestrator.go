package scrub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/application/navigator"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/data/watcher"
	"github.com/penwyp/go-trace-timeline/internal/presentation/display"
	"github.com/penwyp/go-trace-timeline/internal/presentation/interaction"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// Orchestrator coordinates all components for the scrub command
type Orchestrator struct {
	config *Config
	prefs  *navigator.Preferences

	// Core components
	dataLoader   DataSource
	refreshCtrl  *RefreshController
	stateManager *StateManager
	nav          *navigator.Navigator
	metrics      *Metrics

	// UI components
	display  DisplayController
	keyboard InputHandler
	sorter   RowSortStrategy

	// Monitoring
	watcher   FileMonitor
	debouncer *Debouncer
}

// NewOrchestrator creates a new Orchestrator instance. prefs may be nil.
func NewOrchestrator(config *Config, prefs *navigator.Preferences) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if prefs == nil {
		prefs = navigator.NewPreferences(nil)
	}

	metrics := NewMetrics()
	nav := navigator.New(navigator.Options{
		Priority:    config.PriorityOrder(),
		MaxSelected: config.MaxSelected,
		Viewers:     true,
		Observer:    metrics,
	})

	var initial *model.TraceType
	if t, ok := config.ActiveTrace(); ok {
		initial = &t
	}

	dataLoader := NewDataLoader(config)
	stateManager := NewStateManager()
	stateManager.SetInteractionState(model.InteractionState{LayoutStyle: config.LayoutStyle})

	return &Orchestrator{
		config:       config,
		prefs:        prefs,
		dataLoader:   dataLoader,
		refreshCtrl:  NewRefreshController(dataLoader, nav, metrics, initial),
		stateManager: stateManager,
		nav:          nav,
		metrics:      metrics,
		display: display.NewTerminalDisplay(display.Config{
			Timezone:   config.Timezone,
			TimeFormat: config.TimeFormat,
		}),
		sorter:    interaction.NewRowSorter(nav.Data().Priority()),
		debouncer: NewDebouncer(config.WatchDebounce),
	}, nil
}

// Run starts the orchestrator main loop
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting trace timeline scrubber...")

	defer o.Close()

	if err := util.InitializeTimeProvider(o.config.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	// Phase 1: Initialize keyboard
	if o.keyboard == nil {
		keyboard, err := interaction.NewKeyboardReader()
		if err != nil {
			return fmt.Errorf("failed to initialize keyboard: %w", err)
		}
		o.keyboard = keyboard
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	o.stateManager.SetLoadingState(true, fmt.Sprintf("Loading trace dumps from %s...", o.dataLoader.BaseDir()))
	o.updateDisplay()

	if o.config.MetricsAddress != "" {
		go func() {
			if err := o.metrics.Serve(ctx, o.config.MetricsAddress); err != nil {
				util.LogErrorf("Metrics server failed: %v", err)
			}
		}()
	}

	// Phase 2: Initial load
	if _, err := o.refreshCtrl.Reload(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	if err := o.showInitialView(ctx); err != nil {
		return fmt.Errorf("failed to show initial view: %w", err)
	}
	if err := o.nav.SetExpanded(ctx, o.config.LayoutStyle == model.LayoutExpanded); err != nil {
		return fmt.Errorf("failed to apply layout: %w", err)
	}
	o.stateManager.SetLastReload(time.Now())
	o.stateManager.SetLoadingState(false, "")
	o.publishFrame()

	// Phase 3: Start file monitoring
	if o.config.Watch {
		if err := o.startWatcher(); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	// Phase 4: Main event loop
	uiTicker := time.NewTicker(time.Duration(1000/o.config.UIRefreshRate) * time.Millisecond)
	defer uiTicker.Stop()

	o.updateDisplay()

	var fileEvents <-chan model.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down trace timeline scrubber...")
			return nil

		case <-uiTicker.C:
			o.updateDisplay()

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			o.handleFileChange(event)

		case <-o.debouncer.C():
			o.debouncer.Fired()
			o.reload(ctx)
			o.updateDisplay()

		case result := <-o.nav.Results():
			if o.nav.Apply(result) {
				o.publishFrame()
				o.updateDisplay()
			}

		case keyEvent, ok := <-o.keyboard.Events():
			if !ok {
				return nil
			}
			if o.handleKeyboard(ctx, keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

// showInitialView activates the configured trace, or the first loaded trace
// with entries.
func (o *Orchestrator) showInitialView(ctx context.Context) error {
	if t, ok := o.config.ActiveTrace(); ok {
		return o.nav.ShowView(ctx, []model.TraceType{t})
	}
	for _, row := range o.nav.Data().Rows() {
		if row.Entries > 0 {
			return o.nav.ShowView(ctx, []model.TraceType{row.Type})
		}
	}
	return nil
}

// publishFrame snapshots navigation state for the display
func (o *Orchestrator) publishFrame() {
	frame := o.nav.Frame()
	o.sorter.Sort(frame.Rows)
	o.stateManager.SetFrame(frame)

	if frame.HasPosition {
		o.metrics.SetPosition(frame.Position)
	}
	o.metrics.SetTraceEntries(frame.Rows)
}

func (o *Orchestrator) updateDisplay() {
	isLoading, loadingMessage := o.stateManager.GetLoadingState()
	frame := o.stateManager.GetFrameForDisplay()

	state := o.stateManager.GetInteractionState()
	state.IsLoading = isLoading
	if isLoading {
		state.StatusMessage = loadingMessage
	}

	o.display.RenderWithState(&frame, state)
}

func (o *Orchestrator) reload(ctx context.Context) {
	o.stateManager.SetLoadingState(true, "Reloading trace dumps...")
	defer o.stateManager.SetLoadingState(false, "")

	stats, err := o.refreshCtrl.Reload(ctx)
	if err != nil {
		util.LogErrorf("Failed to reload traces: %v", err)
		o.setStatus("Reload failed: " + err.Error())
		return
	}
	o.stateManager.SetLastReload(time.Now())
	o.publishFrame()
	o.setStatus(fmt.Sprintf("Reloaded %d entries from %d dumps", stats.Entries, stats.Files))
}

// handleKeyboard handles keyboard events and reports whether to quit
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	o.setStatus("")

	switch event.Type {
	case interaction.KeyRight:
		o.move(ctx, navigator.MoveNext)
	case interaction.KeyLeft:
		o.move(ctx, navigator.MovePrevious)
	case interaction.KeyEscape:
		state := o.stateManager.GetInteractionState()
		if !state.ShowHelp {
			return true
		}
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowHelp = false
		})
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q', interaction.KeyCtrlC:
			return true
		case 'n', 'N', 'l', 'L':
			o.move(ctx, navigator.MoveNext)
		case 'p', 'P', 'j', 'J':
			o.move(ctx, navigator.MovePrevious)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			o.switchView(ctx, int(event.Key-'1'))
		case 't', 'T':
			o.toggleLayout(ctx)
		case 's', 'S':
			field := o.sorter.Cycle()
			o.publishFrame()
			o.setStatus("Sorted by " + field.String())
		case 'r', 'R':
			o.reload(ctx)
		case 'h', 'H':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = !s.ShowHelp
			})
		}
	}
	return false
}

func (o *Orchestrator) move(ctx context.Context, direction string) {
	moved, err := o.nav.Move(ctx, direction)
	if err != nil {
		util.LogErrorf("Failed to move %s: %v", direction, err)
		o.setStatus(err.Error())
		return
	}
	o.metrics.ObserveMove(direction, moved)

	if !moved {
		active, ok := o.nav.Data().ActiveTrace()
		switch {
		case !ok:
			o.setStatus("No active trace to navigate")
		case direction == navigator.MoveNext:
			o.setStatus(fmt.Sprintf("No next %s entry", active))
		default:
			o.setStatus(fmt.Sprintf("No previous %s entry", active))
		}
		return
	}
	o.publishFrame()
}

// switchView activates the trace on the index-th row as shown on screen
func (o *Orchestrator) switchView(ctx context.Context, index int) {
	frame, ok := o.stateManager.GetFrame()
	if !ok || index >= len(frame.Rows) {
		return
	}
	row := frame.Rows[index]
	if row.Entries == 0 {
		o.setStatus(fmt.Sprintf("%s has no entries", row.Type))
		return
	}
	if err := o.nav.ShowView(ctx, []model.TraceType{row.Type}); err != nil {
		util.LogErrorf("Failed to show %s: %v", row.Type, err)
		return
	}
	o.metrics.ObserveViewChange()
	o.prefs.Remember(navigator.PrefActiveTrace, row.Type.String())
	o.publishFrame()
	o.setStatus("Active trace: " + row.Type.String())
}

func (o *Orchestrator) toggleLayout(ctx context.Context) {
	var style int
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.LayoutStyle = (s.LayoutStyle + 1) % 2
		style = s.LayoutStyle
	})
	expanded := style == model.LayoutExpanded
	if err := o.nav.SetExpanded(ctx, expanded); err != nil {
		util.LogErrorf("Failed to toggle timeline: %v", err)
	}
	o.prefs.RememberInt(navigator.PrefLayout, style)
}

func (o *Orchestrator) setStatus(message string) {
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = message
	})
}

func (o *Orchestrator) startWatcher() error {
	w, err := watcher.NewDumpWatcher([]string{o.dataLoader.BaseDir()}, o.dataLoader.Matches)
	if err != nil {
		return err
	}
	o.watcher = w
	return nil
}

// handleFileChange schedules a debounced reload
func (o *Orchestrator) handleFileChange(event model.FileEvent) {
	util.LogDebugf("Dump changed: %s (%s)", event.Path, event.Operation)
	o.debouncer.Trigger()
}

// Close cleans up all resources
func (o *Orchestrator) Close() error {
	o.debouncer.Stop()
	o.nav.Close()

	var errs []string
	if o.keyboard != nil {
		if err := o.keyboard.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("keyboard: %v", err))
		}
		o.keyboard = nil
	}
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("file watcher: %v", err))
		}
		o.watcher = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close: %s", strings.Join(errs, "; "))
	}
	return nil
}
