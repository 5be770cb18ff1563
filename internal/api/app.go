package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"causaledge/app"
	"causaledge/domain/causal"
	"causaledge/domain/core"
	apperrors "causaledge/internal/errors"
	"causaledge/internal/report"
)

// App represents the HTTP API application
type App struct {
	router  *chi.Mux
	service *app.AnalysisService
}

// Config holds API application configuration
type Config struct {
	Port string
}

// NewApp creates a new API application
func NewApp(service *app.AnalysisService) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Post("/api/analyze", a.handleAnalyze)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
	a.router.Get("/api/runs/{id}/report", a.handleGetRunReport)
}

// Router exposes the underlying handler for tests and servers
func (a *App) Router() http.Handler {
	return a.router
}

// Start begins serving HTTP requests
func (a *App) Start(config Config) error {
	addr := ":" + config.Port
	log.Printf("[API] Listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleAnalyze runs the full pipeline on the posted payload. The
// response is always the fixed envelope shape; HTTP status stays 200
// even for analysis failures so clients branch on the success flag.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	run := a.service.Analyze(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Run-ID", string(run.ID))
	json.NewEncoder(w).Encode(run.Result)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := a.lookupRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

func (a *App) handleGetRunReport(w http.ResponseWriter, r *http.Request) {
	run, ok := a.lookupRun(w, r)
	if !ok {
		return
	}
	md := report.Markdown(run)
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(report.RenderHTML(md))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, md)
}

func (a *App) lookupRun(w http.ResponseWriter, r *http.Request) (*causal.AnalysisRun, bool) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid run ID", http.StatusBadRequest)
		return nil, false
	}
	run, err := a.service.GetRun(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.GetCode(err) == apperrors.CodeNotFound {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return nil, false
	}
	return run, true
}
