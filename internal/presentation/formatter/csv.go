package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format writes one row per step with a column per trace
func (f *CSVFormatter) Format(out io.Writer, steps []StepRecord) error {
	w := csv.NewWriter(out)

	headers := append([]string{"Step", "Move", "Moved", "Active", "Kind", "Position (ns)"}, traceColumns(steps)...)
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, step := range steps {
		record := []string{
			fmt.Sprintf("%d", step.Step),
			step.Move,
			fmt.Sprintf("%t", step.Moved),
			step.Active,
			step.Kind,
			fmt.Sprintf("%d", step.PositionNs),
		}
		for _, entry := range step.Entries {
			record = append(record, entry.Cell())
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
