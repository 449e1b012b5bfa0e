package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/golcrmeter/internal/processing"
	"github.com/kacperjurak/golcrmeter/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Quiet = true

	srv := New(Options{
		Config:       cfg,
		ServerConfig: config.DefaultServerConfig(),
		Processor:    processing.NewProcessor(cfg).ProcessorFunc(),
	})
	t.Cleanup(srv.workerPool.Shutdown)
	return srv
}

func TestServerHealthRoute(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)
}

func TestServerMemoryRoute(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/debug/memory", nil)
	rr := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"alloc_mb"`)
	assert.Contains(t, rr.Body.String(), `"goroutines"`)
}

func TestServerMeasurementRoute(t *testing.T) {
	srv := newTestServer(t)

	body := `{"rref":327.8,"freq":1000,"delta_t":217e-6,"v_in":8.81,"v_dut":0.17827}`
	req := httptest.NewRequest(http.MethodPost, "/measurement", strings.NewReader(body))
	rr := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"kind":"inductive"`)
}
