package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"causaledge/domain/core"
	"causaledge/domain/dag"
)

// Cell is one raw table value. The wire format allows JSON strings,
// numbers, booleans, or null; everything else is rejected at the
// boundary.
type Cell struct {
	Text    string
	Missing bool
}

// UnmarshalJSON accepts string, number, bool, or null cells and
// normalizes them to text for the coercion pass.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		c.Missing = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		c.Missing = strings.TrimSpace(s) == ""
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		c.Text = strconv.FormatFloat(f, 'f', -1, 64)
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			c.Text = "1"
		} else {
			c.Text = "0"
		}
		return nil
	}

	return fmt.Errorf("unsupported cell value %s", trimmed)
}

// Config carries the tabular parsing flags.
type Config struct {
	HasHeaders bool `json:"hasHeaders"`
}

// Payload is the full analysis request: tabular data, parsing config,
// and the DAG to quantify.
type Payload struct {
	Data   [][]Cell      `json:"data"`
	Config Config        `json:"config"`
	DAG    dag.Structure `json:"dagStructure"`
}

// ParsePayload decodes and validates a raw request body. Malformed
// payloads are rejected here, before the core pipeline runs.
func ParsePayload(raw []byte) (*Payload, error) {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "" {
		return nil, core.ErrEmptyInput
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the structural invariants the builder relies on.
func (p *Payload) Validate() error {
	if len(p.Data) == 0 {
		return fmt.Errorf("%w: empty data table", core.ErrMalformedInput)
	}
	width := len(p.Data[0])
	if width == 0 {
		return fmt.Errorf("%w: empty first row", core.ErrMalformedInput)
	}
	for i, row := range p.Data {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", core.ErrMalformedInput, i, len(row), width)
		}
	}
	if p.Config.HasHeaders && len(p.Data) < 2 {
		return fmt.Errorf("%w: header row without data rows", core.ErrMalformedInput)
	}
	for i, e := range p.DAG.Edges {
		if strings.TrimSpace(e.Source) == "" || strings.TrimSpace(e.Target) == "" {
			return fmt.Errorf("%w: edge %d missing source or target", core.ErrMalformedInput, i)
		}
	}
	return nil
}
