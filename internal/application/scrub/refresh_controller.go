package scrub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/application/navigator"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/data/loader"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// RefreshController reloads dumps into the navigator. The navigator carries
// the position and visited views over to the new traces.
type RefreshController struct {
	source  DataSource
	nav     *navigator.Navigator
	metrics *Metrics
	initial *model.TraceType

	refreshMutex sync.Mutex // Prevent concurrent reloads
}

func NewRefreshController(source DataSource, nav *navigator.Navigator, metrics *Metrics, initial *model.TraceType) *RefreshController {
	return &RefreshController{
		source:  source,
		nav:     nav,
		metrics: metrics,
		initial: initial,
	}
}

// Reload scans, parses and re-initializes the timeline. On failure the
// previous traces stay loaded.
func (rc *RefreshController) Reload(ctx context.Context) (loader.Stats, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	traces, stats, err := rc.source.Load(ctx)
	if err == nil {
		err = rc.nav.Load(ctx, traces, rc.initial)
	}
	if rc.metrics != nil {
		rc.metrics.ObserveReload(stats, err)
	}
	if err != nil {
		return stats, fmt.Errorf("failed to reload traces: %w", err)
	}

	rc.logTraceDetails(stats)
	return stats, nil
}

func (rc *RefreshController) logTraceDetails(stats loader.Stats) {
	data := rc.nav.Data()
	names := make([]string, 0, data.Traces().Len())
	for _, row := range data.Rows() {
		names = append(names, fmt.Sprintf("%s(%d)", row.Type, row.Entries))
	}

	fields := []util.Field{
		util.F("state", data.State().String()),
		util.F("traces", strings.Join(names, ",")),
		util.F("cache_hits", stats.CacheHits),
	}
	if pos, ok := data.CurrentPosition(); ok {
		fields = append(fields, util.F("position", pos.String()))
	}
	util.LogEvent(util.LevelInfo, "Timeline reloaded", fields...)
}

// Debouncer coalesces bursts of file events into one reload. It is driven
// from a single goroutine.
type Debouncer struct {
	delay time.Duration
	timer *time.Timer
	c     <-chan time.Time
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger (re)starts the delay
func (d *Debouncer) Trigger() {
	if d.timer == nil {
		d.timer = time.NewTimer(d.delay)
		d.c = d.timer.C
		return
	}
	d.timer.Stop()
	d.timer.Reset(d.delay)
	d.c = d.timer.C
}

// C fires once per burst; it is nil while idle
func (d *Debouncer) C() <-chan time.Time {
	return d.c
}

// Fired marks the pending burst as handled
func (d *Debouncer) Fired() {
	d.c = nil
}

func (d *Debouncer) Stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.c = nil
}
