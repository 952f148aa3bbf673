package commands

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"github.com/penwyp/go-trace-timeline/internal/application/inspect"
	"github.com/penwyp/go-trace-timeline/internal/application/navigator"
	"github.com/spf13/cobra"
)

var (
	inspectActive   string
	inspectStart    string
	inspectSnap     bool
	inspectFrom     string
	inspectTo       string
	inspectMoves    []string
	inspectKind     string
	inspectPriority []string

	// Output related
	outputFormat string
	timezone     string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Replay navigation moves and print where each trace stands",
	Long: `Loads the dumps, positions the timeline and replays a list of next/prev
moves on the active trace. Each step reports the position and the entry every
trace resolves to.

Examples:
  go-trace-timeline inspect --active SURFACE_FLINGER --moves n,n,p
  go-trace-timeline inspect --active WINDOW_MANAGER --start 105 --moves next -o json
  go-trace-timeline inspect --active SURFACE_FLINGER --start 108 --snap --from 100 --to 110 -o summary
  go-trace-timeline inspect --start 2024-05-01T10:00:00Z --kind real -o csv`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectActive, "active", "",
		"Trace type to navigate")
	inspectCmd.Flags().StringVar(&inspectStart, "start", "",
		"Initial position: nanoseconds, a duration for elapsed traces or RFC3339 for real traces")
	inspectCmd.Flags().BoolVar(&inspectSnap, "snap", false,
		"Move --start onto the closest entry of the active trace")
	inspectCmd.Flags().StringVar(&inspectFrom, "from", "",
		"Selection range start, same format as --start")
	inspectCmd.Flags().StringVar(&inspectTo, "to", "",
		"Selection range end, same format as --start")
	inspectCmd.Flags().StringSliceVarP(&inspectMoves, "moves", "m", nil,
		"Moves to replay (n, next, p, prev)")
	inspectCmd.Flags().StringVar(&inspectKind, "kind", "auto",
		"Timestamp kind (auto, real, elapsed)")
	inspectCmd.Flags().StringSliceVar(&inspectPriority, "priority", nil,
		"Trace order used to break ties between traces")

	// Output configuration
	inspectCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	inspectCmd.Flags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	initLogging(true)
	prefs := openPreferences()

	config := &inspect.Config{
		DataDir:      expandPath(dataDir),
		Extensions:   splitList(extensions),
		Active:       preferString(cmd, "active", inspectActive, prefs, navigator.PrefActiveTrace),
		Start:        inspectStart,
		Snap:         inspectSnap,
		From:         inspectFrom,
		To:           inspectTo,
		Moves:        splitList(inspectMoves),
		Kind:         inspectKind,
		Priority:     preferList(cmd, "priority", splitList(inspectPriority), prefs, navigator.PrefPriority),
		OutputFormat: outputFormat,
		Timezone:     preferString(cmd, "timezone", timezone, prefs, navigator.PrefTimezone),
		Concurrency:  runtime.NumCPU(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return inspect.New(config).Run(ctx, cmd.OutOrStdout())
}
