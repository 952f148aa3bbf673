package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

const fullPayloadLines = 12

// FullLayoutStrategy draws the expanded timeline: a cursor bar, one row per
// trace and the active entry's payload.
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Expanded Timeline"
}

func (s *FullLayoutStrategy) Render(w io.Writer, frame *model.Frame, param model.LayoutParam) {
	width := s.GetSizer().Width
	inner := width - 4

	fmt.Fprintln(w, "╭"+strings.Repeat("─", width-2)+"╮")
	s.header(w, frame, param, inner, width)
	s.separator(w, width)
	s.cursorBar(w, frame, param, inner, width)
	s.separator(w, width)
	s.traceRows(w, frame, param, inner, width)
	if frame.HasPayload {
		s.separator(w, width)
		s.payload(w, frame, width)
	}
	fmt.Fprintln(w, "╰"+strings.Repeat("─", width-2)+"╯")
}

func (s *FullLayoutStrategy) separator(w io.Writer, width int) {
	fmt.Fprintln(w, "├"+strings.Repeat("─", width-2)+"┤")
}

func (s *FullLayoutStrategy) header(w io.Writer, frame *model.Frame, param model.LayoutParam, inner, width int) {
	right := s.FormatPosition(frame, param)
	if frame.HasPosition {
		right = fmt.Sprintf("%s %s", frame.Position.Timestamp.Kind(), right)
	}
	fmt.Fprintln(w, s.BoxLine(s.TwoColumns("TRACE TIMELINE", right, inner), width, &titleStyle))

	var details []string
	if param.Timezone != "" {
		details = append(details, "tz "+param.Timezone)
	}
	if frame.HasScreenRecording {
		details = append(details, fmt.Sprintf("recording %.3fs", frame.ScreenRecordingSeconds))
	}
	if len(details) > 0 {
		fmt.Fprintln(w, s.BoxLine(strings.Join(details, " | "), width, &mutedStyle))
	}
}

func (s *FullLayoutStrategy) cursorBar(w io.Writer, frame *model.Frame, param model.LayoutParam, inner, width int) {
	if !frame.HasPosition {
		fmt.Fprintln(w, s.BoxLine("no entries loaded", width, &mutedStyle))
		return
	}

	if frame.SingleTimestamp {
		fmt.Fprintln(w, s.BoxLine("all entries share one timestamp", width, &mutedStyle))
		return
	}

	ticks := make([]float64, 0, len(frame.Rows))
	for _, row := range frame.Rows {
		if row.HasEntry() {
			ticks = append(ticks, row.Fraction)
		}
	}
	fmt.Fprintln(w, s.BoxLine(util.CreateCursorBar(frame.Fraction, ticks, inner), width, nil))
	fmt.Fprintln(w, s.BoxLine(s.TwoColumns(
		s.FormatTimestamp(frame.From, param),
		s.FormatTimestamp(frame.To, param), inner), width, &mutedStyle))
}

func (s *FullLayoutStrategy) traceRows(w io.Writer, frame *model.Frame, param model.LayoutParam, inner, width int) {
	if len(frame.Rows) == 0 {
		fmt.Fprintln(w, s.BoxLine("no traces loaded", width, &mutedStyle))
		return
	}

	sizer := s.GetSizer()
	nameWidth := 22
	indexWidth := 14
	deltaWidth := 10
	nextWidth := 10
	timeWidth := inner - 2 - nameWidth - indexWidth - deltaWidth - nextWidth - 4
	if timeWidth < 8 {
		timeWidth = 8
	}

	for i, row := range frame.Rows {
		marker := " "
		if row.Active {
			marker = activeMarker
		} else if row.Selected {
			marker = "·"
		}
		entryTime := "before first entry"
		if row.HasEntry() {
			entryTime = s.FormatTimestamp(row.Timestamp, param)
		}

		line := fmt.Sprintf("%s %s %s %s %s %s",
			marker,
			sizer.PadString(fmt.Sprintf("%d %s", i+1, row.Type), nameWidth, true),
			sizer.PadString(s.FormatEntryIndex(row), indexWidth, false),
			sizer.PadString(entryTime, timeWidth, true),
			sizer.PadString(s.FormatDelta(row, frame), deltaWidth, false),
			sizer.PadString(s.FormatNext(row, frame), nextWidth, false))

		if row.Active {
			fmt.Fprintln(w, s.BoxLine(line, width, &activeStyle))
		} else {
			fmt.Fprintln(w, s.BoxLine(line, width, nil))
		}
	}
}

func (s *FullLayoutStrategy) payload(w io.Writer, frame *model.Frame, width int) {
	fmt.Fprintln(w, s.BoxLine(fmt.Sprintf("%s entry", frame.PayloadType), width, &titleStyle))
	for _, line := range s.PayloadLines(frame.Payload, fullPayloadLines) {
		fmt.Fprintln(w, s.BoxLine(line, width, nil))
	}
}
