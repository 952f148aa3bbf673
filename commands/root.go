package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-trace-timeline/internal/application/navigator"
	"github.com/penwyp/go-trace-timeline/internal/core/storage"
	"github.com/penwyp/go-trace-timeline/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug   bool
	logFile string

	// Data path
	dataDir    string
	extensions []string

	// Preferences
	prefsFile string

	rootCmd = &cobra.Command{
		Use:   "go-trace-timeline [command]",
		Short: "Synchronized navigation over trace dumps",
		Long: `go-trace-timeline loads trace dumps captured from several subsystems and
keeps them on one shared timeline. Moving through the entries of one trace
shows where every other trace stands at that moment.

Examples:
  go-trace-timeline scrub --dir ./dumps                          # Interactive scrubber
  go-trace-timeline scrub --dir ./dumps --active WINDOW_MANAGER  # Start on WindowManager entries
  go-trace-timeline scrub --dir ./dumps --watch                  # Reload when dumps change
  go-trace-timeline inspect --dir ./dumps --active SURFACE_FLINGER --moves n,n,p
  go-trace-timeline inspect --dir ./dumps --start 1h2m --moves next -o json`,
		SilenceUsage: true,
	}
)

const (
	defaultLogFile   = "~/.go-trace-timeline/logs/app.log"
	defaultPrefsFile = "~/.go-trace-timeline/preferences.json"
	defaultDataDir   = "."
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Directory holding trace dumps")
	rootCmd.PersistentFlags().StringSliceVar(&extensions, "ext", []string{".jsonl"},
		"Dump file extensions")

	// Preferences
	rootCmd.PersistentFlags().StringVar(&prefsFile, "prefs", defaultPrefsFile,
		"Preferences file (empty to disable)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path")
}

func Execute() error {
	return rootCmd.Execute()
}

// initLogging sets up the global logger. The console output goes to stderr
// and is only enabled when the command does not own the terminal.
func initLogging(console bool) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	opts := util.LoggerOptions{
		Level:      logLevel,
		MaxSizeMB:  10,
		MaxBackups: 3,
		Console:    console && debug,
	}
	if logFile != "" {
		opts.File = expandPath(logFile)
		if err := ensureDir(filepath.Dir(opts.File)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
			opts.File = ""
		}
	}
	if err := util.InitLogger(opts); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}
}

// openPreferences opens the preferences file. Without one, preferences live
// in memory for the current run.
func openPreferences() *navigator.Preferences {
	if prefsFile == "" {
		return navigator.NewPreferences(nil)
	}
	store, err := storage.NewFileStorage(expandPath(prefsFile))
	if err != nil {
		util.LogWarnf("Failed to open preferences, using defaults: %v", err)
		return navigator.NewPreferences(nil)
	}
	return navigator.NewPreferences(store)
}

// preferString returns the flag value unless the user left it unset and a
// preference exists.
func preferString(cmd *cobra.Command, flag, value string, prefs *navigator.Preferences, key string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return prefs.String(key, value)
}

func preferList(cmd *cobra.Command, flag string, value []string, prefs *navigator.Preferences, key string) []string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	if stored := prefs.List(key); len(stored) > 0 {
		return stored
	}
	return value
}

// splitList accepts both repeated flags and comma separated values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
