package scrub

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/data/loader"
	"github.com/penwyp/go-trace-timeline/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	prometheusNamespace = "trace_timeline"

	directionLabel = "direction"
	resultLabel    = "result"
	traceLabel     = "trace"

	navigationMovesMetricName = "navigation_moves_total"
	viewChangesMetricName     = "view_changes_total"
	reloadsMetricName         = "reloads_total"
	fetchResultsMetricName    = "fetch_results_total"
	traceEntriesMetricName    = "trace_entries"
	positionMetricName        = "position_ns"
	reloadDurationMetricName  = "reload_duration_seconds"
)

// Metrics are the prometheus metrics of a scrub session. They also observe
// the entry viewers, counting applied and stale fetch results.
type Metrics struct {
	registry *prometheus.Registry

	moves          *prometheus.CounterVec
	viewChanges    prometheus.Counter
	reloads        *prometheus.CounterVec
	fetchResults   *prometheus.CounterVec
	traceEntries   *prometheus.GaugeVec
	position       prometheus.Gauge
	reloadDuration prometheus.Histogram
}

// NewMetrics registers the metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: prometheusNamespace,
			Name:      navigationMovesMetricName,
			Help:      "Next/previous navigation requests by outcome.",
		}, []string{directionLabel, resultLabel}),
		viewChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: prometheusNamespace,
			Name:      viewChangesMetricName,
			Help:      "Number of active view changes.",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: prometheusNamespace,
			Name:      reloadsMetricName,
			Help:      "Trace dump reloads by outcome.",
		}, []string{resultLabel}),
		fetchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: prometheusNamespace,
			Name:      fetchResultsMetricName,
			Help:      "Entry payload fetches, applied or discarded as stale.",
		}, []string{traceLabel, resultLabel}),
		traceEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: prometheusNamespace,
			Name:      traceEntriesMetricName,
			Help:      "Entries loaded per trace.",
		}, []string{traceLabel}),
		position: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: prometheusNamespace,
			Name:      positionMetricName,
			Help:      "Timestamp of the current timeline position in nanoseconds.",
		}),
		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: prometheusNamespace,
			Name:      reloadDurationMetricName,
			Help:      "Time spent loading trace dumps.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(m.moves)
	reg.MustRegister(m.viewChanges)
	reg.MustRegister(m.reloads)
	reg.MustRegister(m.fetchResults)
	reg.MustRegister(m.traceEntries)
	reg.MustRegister(m.position)
	reg.MustRegister(m.reloadDuration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveMove counts a navigation request; saturated moves did not change
// the position.
func (m *Metrics) ObserveMove(direction string, moved bool) {
	result := "moved"
	if !moved {
		result = "saturated"
	}
	m.moves.With(prometheus.Labels{directionLabel: direction, resultLabel: result}).Inc()
}

func (m *Metrics) ObserveViewChange() {
	m.viewChanges.Inc()
}

// ObserveReload records a dump reload and the entries it produced
func (m *Metrics) ObserveReload(stats loader.Stats, err error) {
	if err != nil {
		m.reloads.With(prometheus.Labels{resultLabel: "error"}).Inc()
		return
	}
	m.reloads.With(prometheus.Labels{resultLabel: "ok"}).Inc()
	m.reloadDuration.Observe(stats.Duration.Seconds())
}

// SetTraceEntries replaces the per-trace entry gauges
func (m *Metrics) SetTraceEntries(rows []model.TraceRow) {
	m.traceEntries.Reset()
	for _, row := range rows {
		m.traceEntries.With(prometheus.Labels{traceLabel: row.Type.String()}).Set(float64(row.Entries))
	}
}

func (m *Metrics) SetPosition(pos model.Position) {
	m.position.Set(float64(pos.Timestamp.ValueNs()))
}

// ResultApplied implements viewer.Observer
func (m *Metrics) ResultApplied(traceType model.TraceType) {
	m.fetchResults.With(prometheus.Labels{traceLabel: traceType.String(), resultLabel: "applied"}).Inc()
}

// ResultDiscarded implements viewer.Observer
func (m *Metrics) ResultDiscarded(traceType model.TraceType) {
	m.fetchResults.With(prometheus.Labels{traceLabel: traceType.String(), resultLabel: "discarded"}).Inc()
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			util.LogWarnf("Failed to stop metrics server: %v", err)
		}
	}()

	util.LogInfof("Serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
