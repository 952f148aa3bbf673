package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-trace-timeline/internal/util"
)

type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// fixedColumns are left-aligned; trace columns are right-aligned
const fixedColumns = 4

func (f *TableFormatter) Format(w io.Writer, steps []StepRecord) error {
	headers := append([]string{"Step", "Move", "Active", "Position"}, traceColumns(steps)...)

	rows := make([][]string, 0, len(steps))
	for _, step := range steps {
		move := step.Move
		if !step.Moved && step.Step > 0 {
			move += " (stay)"
		}
		row := []string{fmt.Sprintf("%d", step.Step), move, step.Active, step.Position}
		for _, entry := range step.Entries {
			row = append(row, entry.Cell())
		}
		rows = append(rows, row)
	}

	widths := f.calculateColumnWidths(headers, rows)

	f.printBorder(w, widths, "top")
	f.printRow(w, headers, widths)
	f.printBorder(w, widths, "middle")
	for _, row := range rows {
		f.printRow(w, row, widths)
	}
	f.printBorder(w, widths, "bottom")
	return nil
}

func (f *TableFormatter) calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if i < len(widths) && util.GetDisplayWidth(value) > widths[i] {
				widths[i] = util.GetDisplayWidth(value)
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right)
	fmt.Fprintln(w, sb.String())
}

func (f *TableFormatter) printRow(w io.Writer, values []string, widths []int) {
	var sb strings.Builder
	sb.WriteString("│")
	for i, width := range widths {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		pad := strings.Repeat(" ", width-util.GetDisplayWidth(value))
		if i < fixedColumns {
			sb.WriteString(" " + value + pad + " │")
		} else {
			sb.WriteString(" " + pad + value + " │")
		}
	}
	fmt.Fprintln(w, sb.String())
}
