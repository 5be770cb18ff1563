package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"causaledge/domain/causal"
	"causaledge/domain/core"
	apperrors "causaledge/internal/errors"
	"causaledge/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Schema for the single table this adapter owns.
const runsSchema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id          TEXT PRIMARY KEY,
	method      TEXT NOT NULL,
	success     BOOLEAN NOT NULL,
	request     JSONB NOT NULL,
	result      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository connects, ensures the schema, and returns the
// repository.
func NewRunRepository(databaseURL string) (ports.RunRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to postgres")
	}
	if _, err := db.Exec(runsSchema); err != nil {
		return nil, apperrors.Wrap(err, "failed to ensure analysis_runs schema")
	}
	return &runRepository{db: db}, nil
}

// Save inserts a completed run. Runs are immutable; duplicates are a
// caller bug surfaced as a constraint error.
func (r *runRepository) Save(ctx context.Context, run *causal.AnalysisRun) error {
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `INSERT INTO analysis_runs (id, method, success, request, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Method, run.Success, []byte(run.Request), resultJSON, run.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrapf(err, "failed to save analysis run %s", run.ID)
	}
	return nil
}

// GetByID retrieves a run by its ID
func (r *runRepository) GetByID(ctx context.Context, id core.RunID) (*causal.AnalysisRun, error) {
	query := `SELECT id, method, success, request, result, created_at
		FROM analysis_runs WHERE id = $1`

	var run causal.AnalysisRun
	var resultJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Method, &run.Success, &run.Request, &resultJSON, &run.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("analysis run %s", id))
		}
		return nil, apperrors.Wrap(err, "failed to get analysis run")
	}

	if len(resultJSON) > 0 {
		run.Result = &causal.AnalysisResult{}
		if err := json.Unmarshal(resultJSON, run.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
	}
	return &run, nil
}
