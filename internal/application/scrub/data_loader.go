package scrub

import (
	"context"
	"fmt"

	"github.com/penwyp/go-trace-timeline/internal/core/trace"
	"github.com/penwyp/go-trace-timeline/internal/data/loader"
	"github.com/penwyp/go-trace-timeline/internal/data/scanner"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// DataLoader scans the dump directory and parses what it finds. Unchanged
// files are served from the loader's cache on reload.
type DataLoader struct {
	config  *Config
	scanner *scanner.DumpScanner
	loader  *loader.Loader
}

func NewDataLoader(config *Config) *DataLoader {
	return &DataLoader{
		config:  config,
		scanner: scanner.NewDumpScanner(config.DataDir, config.Extensions...),
		loader: loader.NewLoader(loader.Options{
			Concurrency: config.Concurrency,
			Kind:        config.Kind,
		}),
	}
}

func (dl *DataLoader) BaseDir() string {
	return dl.scanner.BaseDir()
}

func (dl *DataLoader) Matches(path string) bool {
	return dl.scanner.Matches(path)
}

// Load returns empty traces when the directory holds no dumps yet
func (dl *DataLoader) Load(ctx context.Context) (*trace.Traces, loader.Stats, error) {
	files, err := dl.scanner.Scan()
	if err != nil {
		return nil, loader.Stats{}, fmt.Errorf("failed to scan dumps: %w", err)
	}
	if len(files) == 0 {
		util.LogWarnf("No dump files found in %s", dl.scanner.BaseDir())
	}

	traces, stats, err := dl.loader.Load(ctx, files)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load dumps: %w", err)
	}
	return traces, stats, nil
}
