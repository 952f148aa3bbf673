package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/presentation/layout"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// Config holds the display preferences of the scrub screen
type Config struct {
	Timezone   string
	TimeFormat string
	// Width overrides the measured terminal width when positive
	Width int
}

type displayMode int

const (
	modeNormal displayMode = iota
	modeHelp
	modeLoading
)

// TerminalDisplay draws frames on an alternate terminal screen
type TerminalDisplay struct {
	out               io.Writer
	config            Config
	sizer             *layout.Sizer
	inAlternateScreen bool
	lastLayoutStyle   int
	isFirstRender     bool
	currentMode       displayMode
}

// NewTerminalDisplay draws on stdout
func NewTerminalDisplay(config Config) *TerminalDisplay {
	return NewTerminalDisplayTo(os.Stdout, config)
}

// NewTerminalDisplayTo draws on out
func NewTerminalDisplayTo(out io.Writer, config Config) *TerminalDisplay {
	var sizer *layout.Sizer
	if config.Width > 0 {
		sizer = layout.NewSizer(config.Width)
	} else {
		sizer = layout.TerminalSizer()
	}
	return &TerminalDisplay{
		out:           out,
		config:        config,
		sizer:         sizer,
		isFirstRender: true,
	}
}

// EnterAlternateScreen switches to the alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen, util.ClearScreen, util.ClearScrollback, util.MoveCursorHome, util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to the normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, util.ExitAltScreen)
	td.inAlternateScreen = false
}

func (td *TerminalDisplay) clear() {
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome)
	}
}

func (td *TerminalDisplay) determineDisplayMode(state model.InteractionState) displayMode {
	if state.ShowHelp {
		return modeHelp
	}
	if state.IsLoading {
		return modeLoading
	}
	return modeNormal
}

// RenderWithState draws frame, or the help or loading screen when state asks
// for them.
func (td *TerminalDisplay) RenderWithState(frame *model.Frame, state model.InteractionState) {
	newMode := td.determineDisplayMode(state)

	// Frames change height between layouts and modes; a full clear avoids
	// leftovers from the taller one.
	if td.isFirstRender || newMode != td.currentMode || td.lastLayoutStyle != state.LayoutStyle {
		td.clear()
		td.isFirstRender = false
		td.currentMode = newMode
		td.lastLayoutStyle = state.LayoutStyle
	} else if td.inAlternateScreen {
		fmt.Fprint(td.out, util.MoveCursorHome)
	}

	switch newMode {
	case modeHelp:
		td.renderHelp()
		return
	case modeLoading:
		td.renderLoadingScreen(state.StatusMessage)
		return
	}

	param := model.LayoutParam{Timezone: td.config.Timezone, TimeFormat: td.config.TimeFormat}
	layout.GetLayoutStrategy(state.LayoutStyle, td.sizer).Render(td.out, frame, param)

	if state.StatusMessage != "" {
		td.renderStatusMessage(state.StatusMessage)
	}
	if td.inAlternateScreen {
		fmt.Fprint(td.out, "\033[J")
	}
}

func (td *TerminalDisplay) renderHelp() {
	width := td.sizer.Width
	lines := []string{
		"Trace Timeline - Help",
		strings.Repeat("═", width),
		"",
		"Keyboard Shortcuts:",
		"",
		"  →/n/l       - Move to the next entry of the active trace",
		"  ←/p/j       - Move to the previous entry of the active trace",
		"  1-9         - View the nth trace; it becomes the active trace",
		"  t           - Toggle expanded/minimized timeline",
		"  s           - Cycle row sorting (priority, name, entries)",
		"  r           - Reload dumps from disk",
		"  h           - Show this help",
		"  q/Esc/Ctrl+C - Quit (Esc closes help first)",
		"",
		"Rows:",
		"  ▶  active trace, navigation steps through its entries",
		"  ·  visited before, selected in the history",
		"",
		strings.Repeat("═", width),
		"Press 'h' to return...",
	}
	for _, line := range lines {
		fmt.Fprintln(td.out, line)
	}
}

func (td *TerminalDisplay) renderStatusMessage(message string) {
	for _, line := range wrapText("Status: "+message, td.sizer.Width-2) {
		fmt.Fprintf(td.out, "  %s%s%s\n", util.ColorYellow, line, util.ColorReset)
	}
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{}
	}

	if util.GetDisplayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		if currentLine == "" {
			currentLine = word
		} else if util.GetDisplayWidth(currentLine)+1+util.GetDisplayWidth(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func (td *TerminalDisplay) renderLoadingScreen(message string) {
	if message == "" {
		message = "Loading traces..."
	}

	boxWidth := 50
	padding := strings.Repeat(" ", (td.sizer.Width-boxWidth)/2)
	inner := boxWidth - 2

	fmt.Fprintln(td.out)
	fmt.Fprintf(td.out, "%s╔%s╗\n", padding, strings.Repeat("═", inner))
	fmt.Fprintf(td.out, "%s║%s║\n", padding, util.CenterText("Trace Timeline", inner))
	fmt.Fprintf(td.out, "%s╠%s╣\n", padding, strings.Repeat("═", inner))
	for _, line := range wrapText(message, inner-2) {
		fmt.Fprintf(td.out, "%s║%s║\n", padding, util.CenterText(line, inner))
	}
	fmt.Fprintf(td.out, "%s║%s║\n", padding, util.CenterText("Press 'q' to quit", inner))
	fmt.Fprintf(td.out, "%s╚%s╝\n", padding, strings.Repeat("═", inner))
}
