package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/application/navigator"
	"github.com/penwyp/go-trace-timeline/internal/application/scrub"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/spf13/cobra"
)

var (
	// Timeline flags
	scrubActive      string
	scrubPriority    []string
	scrubKind        string
	scrubMaxSelected int

	// Display flags
	scrubTimezone         string
	scrubTimeFormat       string
	scrubLayout           string
	scrubRefreshPerSecond float64

	// Refresh flags
	scrubWatch       bool
	scrubDebounce    time.Duration
	scrubMetricsAddr string
)

var scrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Scrub through trace dumps interactively",
	Long: `Shows every loaded trace on one timeline and moves through the entries of
the active trace. The other traces follow, each showing its entry at or
before the current position.

Keys:
  → n l     next entry of the active trace
  ← p j     previous entry of the active trace
  1-9       make the n-th listed trace active
  t         toggle the expanded timeline
  s         cycle row sorting
  r         reload dumps
  h         help
  q Esc     quit`,
	RunE: runScrub,
}

func init() {
	rootCmd.AddCommand(scrubCmd)

	// Timeline flags
	scrubCmd.Flags().StringVar(&scrubActive, "active", "",
		"Trace type to navigate first (e.g., SURFACE_FLINGER, WINDOW_MANAGER)")
	scrubCmd.Flags().StringSliceVar(&scrubPriority, "priority", nil,
		"Trace order used to break ties between traces")
	scrubCmd.Flags().StringVar(&scrubKind, "kind", "auto",
		"Timestamp kind (auto, real, elapsed)")
	scrubCmd.Flags().IntVar(&scrubMaxSelected, "max-selected", 0,
		"Visited traces to remember (0 = unlimited)")

	// Display flags
	scrubCmd.Flags().StringVar(&scrubTimezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")
	scrubCmd.Flags().StringVar(&scrubTimeFormat, "time-format", "24h",
		"Time format (12h or 24h)")
	scrubCmd.Flags().StringVar(&scrubLayout, "layout", "expanded",
		"Initial layout (expanded, minimal)")
	scrubCmd.Flags().Float64Var(&scrubRefreshPerSecond, "refresh-per-second", 4,
		"Display refresh rate (0.1-20 Hz)")

	// Refresh flags
	scrubCmd.Flags().BoolVarP(&scrubWatch, "watch", "w", false,
		"Reload when dump files change")
	scrubCmd.Flags().DurationVar(&scrubDebounce, "debounce", 300*time.Millisecond,
		"Delay before reloading changed dumps")
	scrubCmd.Flags().StringVar(&scrubMetricsAddr, "metrics-addr", "",
		"Serve prometheus metrics on this address (e.g., :9090)")
}

func runScrub(cmd *cobra.Command, args []string) error {
	initLogging(false)

	config, prefs, err := buildScrubConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := scrub.NewOrchestrator(config, prefs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return orchestrator.Run(ctx)
}

// buildScrubConfig layers flags over stored preferences and remembers the
// flags the user set explicitly.
func buildScrubConfig(cmd *cobra.Command) (*scrub.Config, *navigator.Preferences, error) {
	prefs := openPreferences()

	layout, err := parseLayout(scrubLayout)
	if err != nil {
		return nil, nil, err
	}
	if !cmd.Flags().Changed("layout") {
		layout = prefs.Int(navigator.PrefLayout, layout)
	}

	config := &scrub.Config{
		DataDir:        expandPath(dataDir),
		Extensions:     splitList(extensions),
		Active:         preferString(cmd, "active", scrubActive, prefs, navigator.PrefActiveTrace),
		Priority:       preferList(cmd, "priority", splitList(scrubPriority), prefs, navigator.PrefPriority),
		Kind:           scrubKind,
		MaxSelected:    scrubMaxSelected,
		Timezone:       preferString(cmd, "timezone", scrubTimezone, prefs, navigator.PrefTimezone),
		TimeFormat:     preferString(cmd, "time-format", scrubTimeFormat, prefs, navigator.PrefTimeFormat),
		LayoutStyle:    layout,
		Watch:          scrubWatch,
		WatchDebounce:  scrubDebounce,
		UIRefreshRate:  scrubRefreshPerSecond,
		MetricsAddress: scrubMetricsAddr,
		Concurrency:    runtime.NumCPU(),
	}
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	rememberFlags(cmd, prefs, map[string]string{
		"timezone":    navigator.PrefTimezone,
		"time-format": navigator.PrefTimeFormat,
		"priority":    navigator.PrefPriority,
	}, config)
	return config, prefs, nil
}

func rememberFlags(cmd *cobra.Command, prefs *navigator.Preferences, keys map[string]string, config *scrub.Config) {
	for flag, key := range keys {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		switch key {
		case navigator.PrefTimezone:
			prefs.Remember(key, config.Timezone)
		case navigator.PrefTimeFormat:
			prefs.Remember(key, config.TimeFormat)
		case navigator.PrefPriority:
			prefs.Remember(key, strings.Join(config.Priority, ","))
		}
	}
}

func parseLayout(name string) (int, error) {
	switch strings.ToLower(name) {
	case "", "expanded", "full":
		return model.LayoutExpanded, nil
	case "minimal", "compact":
		return model.LayoutMinimal, nil
	default:
		return model.LayoutExpanded, fmt.Errorf("unknown layout '%s': must be expanded or minimal", name)
	}
}
