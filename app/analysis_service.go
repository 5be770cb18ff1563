package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"causaledge/domain/causal"
	"causaledge/domain/core"
	"causaledge/ports"
)

// AnalysisService runs one causal analysis per request: ingest, the
// estimation pipeline, and optional run persistence. It is stateless
// across invocations; every entity is derived fresh from the request.
type AnalysisService struct {
	ingester ports.PayloadIngester
	pipeline ports.AnalysisPipeline
	runs     ports.RunRepository // nil disables persistence
}

// NewAnalysisService wires the service. runs may be nil.
func NewAnalysisService(ingester ports.PayloadIngester, pipeline ports.AnalysisPipeline, runs ports.RunRepository) *AnalysisService {
	return &AnalysisService{
		ingester: ingester,
		pipeline: pipeline,
		runs:     runs,
	}
}

// Analyze processes a raw request body to completion. The returned run
// always carries a parseable result envelope; any panic or error
// surfaces as a failure envelope with the message captured, never as a
// Go error to the caller.
func (s *AnalysisService) Analyze(ctx context.Context, raw []byte) *causal.AnalysisRun {
	start := time.Now()
	result := s.analyze(ctx, raw)

	// A malformed body still gets a run record, but raw bytes that are
	// not valid JSON cannot be stored as a JSON request.
	request := json.RawMessage(raw)
	if !json.Valid(raw) {
		request = json.RawMessage("null")
	}

	run := &causal.AnalysisRun{
		ID:        core.RunID(core.NewID()),
		Method:    causal.Method,
		Success:   result.Success,
		Request:   request,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}

	log.Printf("[Analysis] run %s finished in %.1fs (success=%t, edges=%d)",
		run.ID, time.Since(start).Seconds(), result.Success, len(result.Parameters.Edges))

	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			log.Printf("[Analysis] failed to persist run %s: %v", run.ID, err)
		}
	}
	return run
}

// GetRun loads a persisted run.
func (s *AnalysisService) GetRun(ctx context.Context, id core.RunID) (*causal.AnalysisRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("run persistence is not configured")
	}
	return s.runs.GetByID(ctx, id)
}

func (s *AnalysisService) analyze(ctx context.Context, raw []byte) (result *causal.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Analysis] recovered from panic: %v", r)
			result = causal.NewFailureResult(fmt.Sprintf("analysis failed: %v", r))
		}
	}()

	tbl, structure, err := s.ingester.Ingest(raw)
	if err != nil {
		if core.IsInputError(err) {
			log.Printf("[Analysis] rejected input: %v", err)
		} else {
			log.Printf("[Analysis] ingest error: %v", err)
		}
		return causal.NewFailureResult(err.Error())
	}

	result, err = s.pipeline.Run(ctx, tbl, structure)
	if err != nil {
		return causal.NewFailureResult(err.Error())
	}
	return result
}
