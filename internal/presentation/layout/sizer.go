package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-trace-timeline/internal/util"
	"golang.org/x/term"
)

const (
	minWidth     = 40
	defaultWidth = 80
	maxWidth     = 120
)

// Sizer decides how wide the scrub screen is drawn
type Sizer struct {
	Width int
}

// NewSizer clamps width to the supported range
func NewSizer(width int) *Sizer {
	if width < minWidth {
		width = minWidth
	}
	if width > maxWidth {
		width = maxWidth
	}
	return &Sizer{Width: width}
}

// TerminalSizer measures stdout, falling back to 80 columns when stdout is
// not a terminal.
func TerminalSizer() *Sizer {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		termWidth = defaultWidth
	}
	// Leave a margin so wide glyphs never wrap the right border.
	sizer := NewSizer(termWidth - 2)
	util.LogDebugf("TerminalSizer width %d (terminal %d)", sizer.Width, termWidth)
	return sizer
}

// PadString pads s to a display width, truncating when it does not fit
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := runewidth.StringWidth(text)
	if actualWidth > width {
		text = runewidth.Truncate(text, width, "...")
		actualWidth = runewidth.StringWidth(text)
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}
