package ports

import (
	"causaledge/domain/dag"
	"causaledge/domain/table"
)

// PayloadIngester validates a raw request body and produces the
// cleaned observation table plus the DAG to quantify.
type PayloadIngester interface {
	Ingest(raw []byte) (*table.ObservationTable, dag.Structure, error)
}
