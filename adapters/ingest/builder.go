package ingest

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"causaledge/domain/core"
	"causaledge/domain/table"
)

// TableBuilder turns the raw row/column payload into a typed numeric
// observation table: non-date columns coerced to numeric, rows with
// any missing value discarded.
type TableBuilder struct{}

// NewTableBuilder creates a builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{}
}

// Build produces the cleaned observation table from a validated
// payload. Returns core.ErrNoObservations when cleaning leaves zero
// rows.
func (b *TableBuilder) Build(p *Payload) (*table.ObservationTable, error) {
	headers, dataRows := b.splitHeader(p)
	log.Printf("[TableBuilder] parsing %d rows, columns: %v", len(dataRows), headers)

	t := &table.ObservationTable{}
	for _, h := range headers {
		if strings.EqualFold(h, table.DateColumn) {
			t.HasDate = true
			continue
		}
		t.Columns = append(t.Columns, h)
	}

	dropped := 0
	for _, raw := range dataRows {
		row := table.Row{Values: make(map[string]float64, len(t.Columns))}
		ok := true
		for j, h := range headers {
			cell := raw[j]
			if strings.EqualFold(h, table.DateColumn) {
				row.Date = cell.Text
				continue
			}
			v, err := CoerceNumeric(cell)
			if err != nil {
				ok = false
				break
			}
			row.Values[h] = v
		}
		if !ok {
			dropped++
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	log.Printf("[TableBuilder] final table: %d rows x %d columns (%d dropped)",
		len(t.Rows), len(t.Columns), dropped)

	if len(t.Rows) == 0 {
		return nil, core.ErrNoObservations
	}
	return t, nil
}

func (b *TableBuilder) splitHeader(p *Payload) ([]string, [][]Cell) {
	if p.Config.HasHeaders {
		headers := make([]string, len(p.Data[0]))
		for i, cell := range p.Data[0] {
			headers[i] = strings.TrimSpace(cell.Text)
		}
		return headers, p.Data[1:]
	}

	headers := make([]string, len(p.Data[0]))
	for i := range headers {
		headers[i] = fmt.Sprintf("col_%d", i)
	}
	return headers, p.Data
}

// CoerceNumeric converts a cell to a finite float64. It tolerates the
// formats the upstream spreadsheets produce: currency symbols,
// thousands separators, percent signs, and parenthesized negatives.
func CoerceNumeric(c Cell) (float64, error) {
	if c.Missing {
		return 0, fmt.Errorf("missing value")
	}

	clean := strings.TrimSpace(c.Text)
	if clean == "" {
		return 0, fmt.Errorf("empty value")
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		clean = strings.ReplaceAll(clean, symbol, "")
	}
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	if negative {
		clean = "-" + clean
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %q", c.Text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value: %q", c.Text)
	}
	return v, nil
}
