package analysis

import (
	"strings"

	"causaledge/domain/table"
)

// makeTable builds an observation table from parallel column vectors.
func makeTable(columns []string, data map[string][]float64) *table.ObservationTable {
	n := 0
	for _, col := range data {
		n = len(col)
		break
	}
	rows := make([]table.Row, n)
	for i := 0; i < n; i++ {
		values := make(map[string]float64, len(columns))
		for _, c := range columns {
			values[c] = data[c][i]
		}
		rows[i] = table.Row{Values: values}
	}
	return &table.ObservationTable{Columns: columns, Rows: rows}
}

// exactMatcher resolves wire names (hyphens) back to table columns
// (underscores) with no fuzziness.
type exactMatcher struct{}

func (exactMatcher) Match(nodeID string, available []string) (string, bool) {
	want := strings.ReplaceAll(nodeID, "-", "_")
	for _, col := range available {
		if col == want {
			return col, true
		}
	}
	return "", false
}
