package mf6io

import (
	"fmt"
	"slices"
	"strings"
)

// Table is the value of a tabular parameter: one row per input line,
// one value per column. Absent optional columns hold nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Append adds a row. It must have one value per column.
func (t *Table) Append(row ...any) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("mf6io: table row has %d values, want %d", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Row returns row i.
func (t *Table) Row(i int) []any { return t.Rows[i] }

// Column returns the values of the named column, or nil when the table
// has no such column.
func (t *Table) Column(name string) []any {
	j := slices.IndexFunc(t.Columns, func(c string) bool { return strings.EqualFold(c, name) })
	if j < 0 {
		return nil
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out
}

// Equal reports whether t and o have the same columns and rows.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	return slices.Equal(t.Columns, o.Columns) &&
		slices.EqualFunc(t.Rows, o.Rows, func(a, b []any) bool {
			return slices.EqualFunc(a, b, valueEqual)
		})
}
