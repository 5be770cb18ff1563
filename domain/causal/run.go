package causal

import (
	"encoding/json"
	"time"

	"causaledge/domain/core"
)

// AnalysisRun is one persisted invocation: the raw request alongside
// its result envelope. Runs are immutable once stored.
type AnalysisRun struct {
	ID        core.RunID      `json:"id" db:"id"`
	Method    string          `json:"method" db:"method"`
	Success   bool            `json:"success" db:"success"`
	Request   json.RawMessage `json:"request" db:"request"`
	Result    *AnalysisResult `json:"result" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
