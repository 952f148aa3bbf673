package scrub

import (
	"fmt"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/data/loader"
	"github.com/penwyp/go-trace-timeline/internal/data/scanner"
)

// Config contains configuration for the scrub command
type Config struct {
	// Data directories
	DataDir    string
	Extensions []string

	// Timeline settings
	Active      string   // trace type shown first
	Priority    []string // overrides the default tie-break order
	Kind        string   // auto, real or elapsed
	MaxSelected int      // 0 keeps every visited trace

	// Display settings
	Timezone    string
	TimeFormat  string
	LayoutStyle int

	// Refresh settings
	Watch          bool
	WatchDebounce  time.Duration
	UIRefreshRate  float64
	MetricsAddress string

	// Performance settings
	Concurrency int
}

// Validate fills defaults and rejects values that cannot work
func (c *Config) Validate() error {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{scanner.DefaultExtension}
	}
	if c.Kind == "" {
		c.Kind = loader.KindAuto
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "24h"
	}
	if c.WatchDebounce == 0 {
		c.WatchDebounce = 300 * time.Millisecond
	}
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = 4
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}

	if c.TimeFormat != "12h" && c.TimeFormat != "24h" {
		return fmt.Errorf("invalid time format '%s': must be either '12h' or '24h'", c.TimeFormat)
	}
	if c.UIRefreshRate < 0.1 || c.UIRefreshRate > 20 {
		return fmt.Errorf("refresh rate must be between 0.1 and 20")
	}
	if c.MaxSelected < 0 {
		return fmt.Errorf("max selected must not be negative")
	}
	if c.LayoutStyle != model.LayoutExpanded && c.LayoutStyle != model.LayoutMinimal {
		return fmt.Errorf("unknown layout style %d", c.LayoutStyle)
	}
	switch c.Kind {
	case loader.KindAuto, "real", "elapsed":
	default:
		return fmt.Errorf("invalid timestamp kind '%s': must be auto, real or elapsed", c.Kind)
	}
	if c.Active != "" {
		if _, err := model.ParseTraceType(c.Active); err != nil {
			return fmt.Errorf("invalid active trace: %w", err)
		}
	}
	if _, err := model.ParseTraceTypes(c.Priority); err != nil {
		return fmt.Errorf("invalid priority: %w", err)
	}
	return nil
}

// ActiveTrace is the parsed Active setting
func (c *Config) ActiveTrace() (model.TraceType, bool) {
	if c.Active == "" {
		return 0, false
	}
	t, err := model.ParseTraceType(c.Active)
	return t, err == nil
}

// PriorityOrder is the parsed Priority setting; nil means the default order
func (c *Config) PriorityOrder() model.Priority {
	if len(c.Priority) == 0 {
		return nil
	}
	types, err := model.ParseTraceTypes(c.Priority)
	if err != nil {
		return nil
	}
	return model.Priority(types)
}
