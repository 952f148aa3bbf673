package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/util"
)

// SummaryFormatter reports how far a replay travelled and which entries of
// each trace it visited.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, steps []StepRecord) error {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Navigation Replay Summary")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)

	if len(steps) == 0 {
		fmt.Fprintln(w, "No steps to summarize")
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("=", 60))
		return nil
	}

	first, last := steps[0], steps[len(steps)-1]
	moves, moved := 0, 0
	for _, step := range steps[1:] {
		moves++
		if step.Moved {
			moved++
		}
	}

	fmt.Fprintf(w, "Clock: %s\n", first.Kind)
	fmt.Fprintf(w, "Start: %s\n", first.Position)
	fmt.Fprintf(w, "End:   %s\n", last.Position)
	fmt.Fprintf(w, "Travelled: %s\n", util.FormatDuration(time.Duration(last.PositionNs-first.PositionNs)))
	fmt.Fprintf(w, "Moves: %d (%d moved, %d saturated)\n", moves, moved, moves-moved)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Entries visited:")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, traceName := range traceColumns(steps) {
		seen := make(map[int]bool)
		order := make([]string, 0)
		for _, step := range steps {
			if i >= len(step.Entries) {
				continue
			}
			entry := step.Entries[i]
			if entry.Found && !seen[entry.Index] {
				seen[entry.Index] = true
				order = append(order, fmt.Sprintf("#%d", entry.Index))
			}
		}
		visited := "none"
		if len(order) > 0 {
			visited = strings.Join(order, " ")
		}
		fmt.Fprintf(w, "  %-22s %s\n", traceName+":", visited)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Entries in selection:")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, entry := range last.Entries {
		fmt.Fprintf(w, "  %-22s %d\n", entry.Trace+":", entry.InSelection)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	return nil
}
