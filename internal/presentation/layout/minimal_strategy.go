package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// MinimalLayoutStrategy draws the minimized timeline as a single line
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal Timeline"
}

func (s *MinimalLayoutStrategy) Render(w io.Writer, frame *model.Frame, param model.LayoutParam) {
	parts := []string{"Timeline: " + s.FormatPosition(frame, param)}

	if row, ok := frame.ActiveRow(); ok {
		parts = append(parts, fmt.Sprintf("%s %s %s", activeMarker, row.Type, s.FormatEntryIndex(row)))
	} else {
		parts = append(parts, "no active trace")
	}
	parts = append(parts, fmt.Sprintf("%d traces", len(frame.Rows)))
	if frame.HasScreenRecording {
		parts = append(parts, fmt.Sprintf("rec %.3fs", frame.ScreenRecordingSeconds))
	}

	line := strings.Join(parts, " | ")
	fmt.Fprintln(w, s.GetSizer().PadString(line, s.GetSizer().Width, true))
}
