package table

import (
	"fmt"
	"math"
	"strings"
)

// DateColumn is the single column exempt from numeric coercion.
const DateColumn = "date"

// Row is one observation: column name to numeric value, with an
// optional date label kept separately.
type Row struct {
	Values map[string]float64
	Date   string
}

// ObservationTable holds the cleaned numeric observations. Column
// order is preserved from ingestion; rows never contain a missing
// numeric value after cleaning.
type ObservationTable struct {
	Columns []string // numeric columns, in header order
	Rows    []Row
	HasDate bool
}

// ColumnNames returns all resolvable column names, including the date
// column when present, for use by the node-to-column matcher.
func (t *ObservationTable) ColumnNames() []string {
	if !t.HasDate {
		return t.Columns
	}
	names := make([]string, 0, len(t.Columns)+1)
	names = append(names, t.Columns...)
	return append(names, DateColumn)
}

// HasColumn reports whether the table carries the named numeric column.
func (t *ObservationTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column extracts the named column as a dense vector.
func (t *ObservationTable) Column(name string) ([]float64, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("column %q not in table", name)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Values[name]
	}
	return out, nil
}

// DateLabel returns the date label for a 1-based period, synthesizing
// "Period N" when no date column was ingested.
func (t *ObservationTable) DateLabel(period int) string {
	idx := period - 1
	if t.HasDate && idx >= 0 && idx < len(t.Rows) && strings.TrimSpace(t.Rows[idx].Date) != "" {
		return t.Rows[idx].Date
	}
	return fmt.Sprintf("Period %d", period)
}

// RowCount returns the number of cleaned observations.
func (t *ObservationTable) RowCount() int {
	return len(t.Rows)
}

// IsClean verifies the no-missing-values invariant.
func (t *ObservationTable) IsClean() bool {
	for _, row := range t.Rows {
		for _, c := range t.Columns {
			v, ok := row.Values[c]
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
