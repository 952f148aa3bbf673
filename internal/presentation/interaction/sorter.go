package interaction

import (
	"sort"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// SortField represents the field to sort trace rows by
type SortField int

const (
	SortByPriority SortField = iota
	SortByName
	SortByEntries
)

func (f SortField) String() string {
	switch f {
	case SortByName:
		return "name"
	case SortByEntries:
		return "entries"
	default:
		return "priority"
	}
}

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// RowSorter orders the trace rows of the scrub screen
type RowSorter struct {
	priority model.Priority
	field    SortField
	order    SortOrder
}

// NewRowSorter sorts by priority, ascending
func NewRowSorter(priority model.Priority) *RowSorter {
	if len(priority) == 0 {
		priority = model.DefaultPriority()
	}
	return &RowSorter{
		priority: priority,
		field:    SortByPriority,
		order:    SortAscending,
	}
}

func (s *RowSorter) Field() SortField {
	return s.field
}

// Cycle moves to the next sort field. Entry counts sort largest first.
func (s *RowSorter) Cycle() SortField {
	s.field = (s.field + 1) % 3
	s.order = SortAscending
	if s.field == SortByEntries {
		s.order = SortDescending
	}
	return s.field
}

// Sort sorts rows in place; ties keep priority order
func (s *RowSorter) Sort(rows []model.TraceRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]

		var less, equal bool
		switch s.field {
		case SortByName:
			less = a.Type.String() < b.Type.String()
			equal = a.Type.String() == b.Type.String()
		case SortByEntries:
			less = a.Entries < b.Entries
			equal = a.Entries == b.Entries
		default:
			less = s.priority.Less(a.Type, b.Type)
			equal = a.Type == b.Type
		}

		if equal {
			return s.priority.Less(a.Type, b.Type)
		}
		if s.order == SortDescending {
			return !less
		}
		return less
	})
}
