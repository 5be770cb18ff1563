package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"causaledge/adapters/ingest"
	"causaledge/adapters/matching"
	"causaledge/app"
	"causaledge/domain/causal"
	"causaledge/internal/analysis"
	"causaledge/internal/api"
	"causaledge/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	pipeline := analysis.NewPipeline(
		matching.NewHeuristicMatcher(false),
		&testkit.FixedSampler{CoefMean: 0.5, CoefStd: 0.05, NoiseMean: 0.1},
	)
	service := app.NewAnalysisService(ingest.NewIngester(), pipeline, testkit.NewInMemoryRunRepository())
	server := httptest.NewServer(api.NewApp(service).Router())
	t.Cleanup(server.Close)
	return server
}

func analyzePayload(t *testing.T) []byte {
	t.Helper()
	gen := testkit.NewMarketingDataGenerator(testkit.DefaultMarketingConfig())
	raw, err := gen.GeneratePayload()
	require.NoError(t, err)
	return raw
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/analyze", "application/json", bytes.NewReader(analyzePayload(t)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Run-ID"))

	var result causal.AnalysisResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, causal.Method, result.Method)
	assert.Len(t, result.Parameters.Edges, 3)
}

func TestAnalyzeEndpointFailureStays200(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/analyze", "application/json", bytes.NewReader([]byte("{bad")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result causal.AnalysisResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestGetRunEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/analyze", "application/json", bytes.NewReader(analyzePayload(t)))
	require.NoError(t, err)
	runID := resp.Header.Get("X-Run-ID")
	resp.Body.Close()
	require.NotEmpty(t, runID)

	t.Run("fetch run", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/runs/" + runID)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var run causal.AnalysisRun
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
		assert.Equal(t, runID, string(run.ID))
		assert.True(t, run.Success)
	})

	t.Run("markdown report", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/runs/" + runID + "/report")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	})

	t.Run("html report", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/api/runs/"+runID+"/report", nil)
		require.NoError(t, err)
		req.Header.Set("Accept", "text/html")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})

	t.Run("unknown run", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/runs/" + "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid run id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/runs/not-a-uuid")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
