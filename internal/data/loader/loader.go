package loader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/penwyp/go-trace-timeline/internal/data/cache"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// KindAuto picks real timestamps when every entry carries a real-to-elapsed
// offset and elapsed timestamps otherwise.
const KindAuto = "auto"

// Options configures a Loader
type Options struct {
	Concurrency int
	// Kind is "auto", "real" or "elapsed"
	Kind string
}

// Stats summarizes one Load call
type Stats struct {
	Files      int
	CacheHits  int
	Lines      int
	Entries    int
	Skipped    int
	Failed     int
	Kind       timestamp.Kind
	Duration   time.Duration
	TraceTypes []model.TraceType
}

// FileResult is the outcome of parsing one dump file
type FileResult struct {
	File    string
	Entries []RawEntry
	Lines   int
	Skipped int
	Cached  bool
	Error   error
}

// Loader turns dump files into traces. Parsed files are cached and only
// re-read when they change on disk.
type Loader struct {
	opts  Options
	cache *cache.FileCache[FileResult]
}

func NewLoader(opts Options) *Loader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Kind == "" {
		opts.Kind = KindAuto
	}
	return &Loader{
		opts:  opts,
		cache: cache.NewFileCache[FileResult](),
	}
}

// ParseFile reads one dump. Lines that fail to decode or name an unknown
// trace type are skipped.
func (l *Loader) ParseFile(path string) FileResult {
	if res := l.cache.Get(path); res.Found {
		cached := res.Value
		cached.Cached = true
		return cached
	}

	util.LogDebugf("Start parsing dump: %s", path)
	result := FileResult{File: path}

	file, err := os.Open(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to open dump: %w", err)
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		result.Lines++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var dl DumpLine
		if err := sonic.Unmarshal(line, &dl); err != nil {
			util.LogDebugf("Skip invalid JSON line %s:%d - %v", path, result.Lines, err)
			result.Skipped++
			continue
		}
		traceType, err := model.ParseTraceType(dl.Trace)
		if err != nil {
			util.LogDebugf("Skip line %s:%d - %v", path, result.Lines, err)
			result.Skipped++
			continue
		}

		entry := RawEntry{
			Type:      traceType,
			ElapsedNs: dl.ElapsedNs,
			Payload:   append([]byte(nil), dl.Payload...),
			File:      path,
			Line:      result.Lines,
		}
		if dl.RealToElapsedOffsetNs != nil {
			entry.HasOffset = true
			entry.RealOffsetNs = *dl.RealToElapsedOffsetNs
		}
		result.Entries = append(result.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		result.Error = fmt.Errorf("failed to scan dump %s: %w", path, err)
		return result
	}

	if err := l.cache.Set(path, result); err != nil {
		util.LogDebugf("Not caching %s: %v", path, err)
	}
	return result
}

// ParseFiles parses files concurrently, bounded by Options.Concurrency
func (l *Loader) ParseFiles(ctx context.Context, files []string) <-chan FileResult {
	start := time.Now()
	results := make(chan FileResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Start concurrent parsing of %d dumps, concurrency: %d", len(files), l.opts.Concurrency)

	semaphore := make(chan struct{}, l.opts.Concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results <- FileResult{File: f, Error: ctx.Err()}
				return
			}
			defer func() { <-semaphore }()

			results <- l.ParseFile(f)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	}()

	return results
}

// Load parses files and builds one trace per trace type. Files that fail to
// parse are logged and left out; the error is reserved for cancellation and
// unusable input.
func (l *Loader) Load(ctx context.Context, files []string) (*trace.Traces, Stats, error) {
	start := time.Now()
	stats := Stats{Files: len(files)}

	var results []FileResult
	for res := range l.ParseFiles(ctx, files) {
		results = append(results, res)
	}
	// Results arrive in completion order. Sorting by path keeps the relative
	// order of equal-timestamp entries stable across loads.
	sort.Slice(results, func(i, j int) bool {
		return results[i].File < results[j].File
	})

	var entries []RawEntry
	for _, res := range results {
		if res.Error != nil {
			stats.Failed++
			util.LogEvent(util.LevelWarn, "Failed to parse dump", util.F("file", res.File), util.F("error", res.Error.Error()))
			continue
		}
		if res.Cached {
			stats.CacheHits++
		}
		stats.Lines += res.Lines
		stats.Skipped += res.Skipped
		entries = append(entries, res.Entries...)
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	l.cache.Retain(files)

	kind, err := l.resolveKind(entries)
	if err != nil {
		return nil, stats, err
	}
	stats.Kind = kind

	builder := trace.NewBuilder()
	for _, e := range entries {
		if kind == timestamp.Real && !e.HasOffset {
			util.LogDebugf("Skip %s:%d - no real-to-elapsed offset", e.File, e.Line)
			stats.Skipped++
			continue
		}
		strategy := timestamp.StrategyFor(kind, e.RealOffsetNs)
		builder.Append(e.Type, trace.Record{
			Timestamp: strategy(e.ElapsedNs),
			Payload:   decodePayload(e.Payload),
		})
		stats.Entries++
	}

	traces, err := builder.Build()
	if err != nil {
		return nil, stats, fmt.Errorf("failed to build traces: %w", err)
	}
	stats.TraceTypes = traces.Types(model.DefaultPriority())
	stats.Duration = time.Since(start)

	util.LogInfof("Loaded %d entries from %d dumps (%d cached, %d skipped lines, %d failed) as %s timestamps in %v",
		stats.Entries, stats.Files, stats.CacheHits, stats.Skipped, stats.Failed, kind, stats.Duration)
	return traces, stats, nil
}

func (l *Loader) resolveKind(entries []RawEntry) (timestamp.Kind, error) {
	if l.opts.Kind != KindAuto {
		kind, err := timestamp.ParseKind(l.opts.Kind)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp kind: %w", err)
		}
		return kind, nil
	}
	if len(entries) == 0 {
		return timestamp.Elapsed, nil
	}
	for _, e := range entries {
		if !e.HasOffset {
			return timestamp.Elapsed, nil
		}
	}
	return timestamp.Real, nil
}
