package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/core/timestamp"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

const activeMarker = "▶"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// BaseStrategy holds the helpers shared by the layouts
type BaseStrategy struct {
	sizer *Sizer
}

func (b *BaseStrategy) GetSizer() *Sizer {
	return b.sizer
}

// FormatTimestamp renders real timestamps as a clock in the configured
// timezone and elapsed ones as a duration since boot.
func (b *BaseStrategy) FormatTimestamp(ts timestamp.Timestamp, param model.LayoutParam) string {
	if ts.Kind() == timestamp.Real {
		return util.GetTimeProvider().FormatNs(ts.ValueNs(), util.ClockLayout(param.TimeFormat))
	}
	return timestamp.FormatElapsed(ts.ValueNs())
}

// FormatDelta is the signed distance from the position to a row's entry
func (b *BaseStrategy) FormatDelta(row model.TraceRow, frame *model.Frame) string {
	if !row.HasEntry() || !frame.HasPosition {
		return ""
	}
	delta := row.Timestamp.ValueNs() - frame.Position.Timestamp.ValueNs()
	if delta == 0 {
		return "="
	}
	return util.FormatDuration(time.Duration(delta))
}

// FormatNext is the distance from the position to a row's next entry
func (b *BaseStrategy) FormatNext(row model.TraceRow, frame *model.Frame) string {
	if !row.HasNext || !frame.HasPosition {
		return ""
	}
	return "→" + util.FormatDuration(time.Duration(row.Next.ValueNs()-frame.Position.Timestamp.ValueNs()))
}

// FormatEntryIndex is "3/10", or "-/10" before the first entry
func (b *BaseStrategy) FormatEntryIndex(row model.TraceRow) string {
	if !row.HasEntry() {
		return fmt.Sprintf("-/%d", row.Entries)
	}
	return fmt.Sprintf("%d/%d", row.Index+1, row.Entries)
}

// FormatPosition is the header form of the current position
func (b *BaseStrategy) FormatPosition(frame *model.Frame, param model.LayoutParam) string {
	if !frame.HasPosition {
		return "no position"
	}
	return b.FormatTimestamp(frame.Position.Timestamp, param)
}

// BoxLine frames plain content between borders, padded to width. style may
// be nil; it is applied after padding so escape codes do not skew widths.
func (b *BaseStrategy) BoxLine(content string, width int, style *lipgloss.Style) string {
	padded := b.sizer.PadString(content, width-4, true)
	if style != nil {
		padded = style.Render(padded)
	}
	return "│ " + padded + " │"
}

// TwoColumns places left and right at the edges of width cells
func (b *BaseStrategy) TwoColumns(left, right string, width int) string {
	gap := width - util.GetDisplayWidth(left) - util.GetDisplayWidth(right)
	if gap < 1 {
		return b.sizer.PadString(left+" "+right, width, true)
	}
	return left + strings.Repeat(" ", gap) + right
}

// PayloadLines splits a payload and caps it at limit lines
func (b *BaseStrategy) PayloadLines(payload string, limit int) []string {
	lines := strings.Split(strings.TrimRight(payload, "\n"), "\n")
	if limit > 0 && len(lines) > limit {
		hidden := len(lines) - limit
		lines = append(lines[:limit], fmt.Sprintf("... %d more lines", hidden))
	}
	return lines
}
