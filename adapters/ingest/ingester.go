package ingest

import (
	"causaledge/domain/dag"
	"causaledge/domain/table"
)

// Ingester implements ports.PayloadIngester: schema validation first,
// then the typed table build.
type Ingester struct {
	builder *TableBuilder
}

// NewIngester creates an ingester.
func NewIngester() *Ingester {
	return &Ingester{builder: NewTableBuilder()}
}

// Ingest parses and validates the raw body, then builds the cleaned
// observation table.
func (in *Ingester) Ingest(raw []byte) (*table.ObservationTable, dag.Structure, error) {
	payload, err := ParsePayload(raw)
	if err != nil {
		return nil, dag.Structure{}, err
	}
	tbl, err := in.builder.Build(payload)
	if err != nil {
		return nil, dag.Structure{}, err
	}
	return tbl, payload.DAG, nil
}
