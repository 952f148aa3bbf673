package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal colors
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
)

// Terminal control sequences
const (
	ClearScreen     = "\033[2J"
	ClearLine       = "\033[2K"
	ClearScrollback = "\033[3J"
	MoveCursorHome  = "\033[H"
	HideCursor      = "\033[?25l"
	ShowCursor      = "\033[?25h"
	EnterAltScreen  = "\033[?1049h"
	ExitAltScreen   = "\033[?1049l"
)

const (
	barFilled = "█"
	barEmpty  = "░"
	barCursor = "┃"
)

// GetDisplayWidth is the terminal cell width of text
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads or truncates text to exactly width cells
func PadString(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if GetDisplayWidth(text) > width {
		return runewidth.Truncate(text, width, "...")
	}
	return runewidth.FillRight(text, width)
}

// CenterText centers text within width cells, truncating when it does not fit
func CenterText(text string, width int) string {
	w := GetDisplayWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-padding-w)
}

// CreateProgressBar draws a filled bar for percentage in [0, 100]
func CreateProgressBar(percentage float64, width int) string {
	barWidth := width - 2
	if barWidth < 1 {
		barWidth = 1
	}
	filled := int((percentage / 100) * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barWidth-filled) + "]"
}

// CreateCursorBar draws an empty track with a cursor at fraction in [0, 1]
// and tick marks at the given fractions.
func CreateCursorBar(fraction float64, ticks []float64, width int) string {
	barWidth := width - 2
	if barWidth < 1 {
		barWidth = 1
	}
	cells := make([]string, barWidth)
	for i := range cells {
		cells[i] = "─"
	}
	for _, tick := range ticks {
		cells[cellFor(tick, barWidth)] = "·"
	}
	cells[cellFor(fraction, barWidth)] = barCursor
	return "[" + strings.Join(cells, "") + "]"
}

func cellFor(fraction float64, width int) int {
	cell := int(fraction * float64(width-1))
	if cell < 0 {
		return 0
	}
	if cell >= width {
		return width - 1
	}
	return cell
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}

// FormatDataTitle formats data section titles (Green + Bold)
func FormatDataTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorGreen, title, ColorReset)
}

// FormatSectionSeparator draws a width-cell rule
func FormatSectionSeparator(width int) string {
	if width < 1 {
		width = 1
	}
	return fmt.Sprintf("%s%s%s", ColorCyan, strings.Repeat("─", width), ColorReset)
}

// MoveCursor returns the ANSI sequence for a 1-based row and column
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}
