package e2e

import (
	"regexp"
	"strings"
)

// csi matches control sequences, including private modes such as ?1049h
var csi = regexp.MustCompile(`\x1b\[[?0-9;]*[a-zA-Z]`)

// StripANSI removes control sequences from terminal output
func StripANSI(s string) string {
	return csi.ReplaceAllString(s, "")
}

// Screen replays terminal output onto a fixed-size grid, so tests can assert
// what the user would see after in-place redraws.
type Screen struct {
	rows, cols int
	cells      [][]rune
	x, y       int
}

func NewScreen(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols, cells: make([][]rune, rows)}
	for i := range s.cells {
		s.cells[i] = blankRow(cols)
	}
	return s
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// Replay parses output onto a 40x120 screen
func Replay(output string) *Screen {
	s := NewScreen(40, 120)
	s.Write(output)
	return s
}

// Write applies output to the screen
func (s *Screen) Write(output string) {
	runes := []rune(output)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = s.control(runes, i+2)
		case r == '\r':
			s.x = 0
		case r == '\n':
			s.x = 0
			s.lineFeed()
		default:
			s.put(r)
		}
	}
}

// control handles one CSI sequence starting at start and returns the index
// of its final byte.
func (s *Screen) control(runes []rune, start int) int {
	private := false
	var params []int
	current, seen := 0, false
	for i := start; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '?':
			private = true
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
			seen = true
		case r == ';':
			params = append(params, current)
			current, seen = 0, false
		default:
			if seen {
				params = append(params, current)
			}
			if !private {
				s.command(r, params)
			}
			return i
		}
	}
	return len(runes)
}

func param(params []int, i, fallback int) int {
	if i < len(params) && params[i] > 0 {
		return params[i]
	}
	return fallback
}

func (s *Screen) command(cmd rune, params []int) {
	switch cmd {
	case 'H', 'f':
		s.y = clamp(param(params, 0, 1)-1, 0, s.rows-1)
		s.x = clamp(param(params, 1, 1)-1, 0, s.cols-1)
	case 'A':
		s.y = clamp(s.y-param(params, 0, 1), 0, s.rows-1)
	case 'B':
		s.y = clamp(s.y+param(params, 0, 1), 0, s.rows-1)
	case 'C':
		s.x = clamp(s.x+param(params, 0, 1), 0, s.cols-1)
	case 'D':
		s.x = clamp(s.x-param(params, 0, 1), 0, s.cols-1)
	case 'J':
		mode := 0
		if len(params) > 0 {
			mode = params[0]
		}
		if mode == 0 {
			s.clearLine(s.y, s.x)
			for row := s.y + 1; row < s.rows; row++ {
				s.cells[row] = blankRow(s.cols)
			}
			return
		}
		for row := range s.cells {
			s.cells[row] = blankRow(s.cols)
		}
	case 'K':
		if len(params) > 0 && params[0] == 2 {
			s.clearLine(s.y, 0)
			return
		}
		s.clearLine(s.y, s.x)
	}
}

func (s *Screen) clearLine(row, from int) {
	for col := from; col < s.cols; col++ {
		s.cells[row][col] = ' '
	}
}

func (s *Screen) put(r rune) {
	if s.x >= s.cols {
		s.x = 0
		s.lineFeed()
	}
	s.cells[s.y][s.x] = r
	s.x++
}

func (s *Screen) lineFeed() {
	if s.y < s.rows-1 {
		s.y++
		return
	}
	copy(s.cells, s.cells[1:])
	s.cells[s.rows-1] = blankRow(s.cols)
}

// Render returns the visible text with trailing blanks trimmed
func (s *Screen) Render() string {
	lines := make([]string, s.rows)
	for i, row := range s.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Line returns one row of the screen
func (s *Screen) Line(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.cells[row]), " ")
}

func (s *Screen) Contains(text string) bool {
	return strings.Contains(s.Render(), text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
