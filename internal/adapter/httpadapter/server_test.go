package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/gridstat-etl/internal/adapter/httpadapter"
)

type mockBatch struct {
	err                 error
	done, failed, total int
}

func (m *mockBatch) CheckReadiness(_ context.Context) error { return m.err }

func (m *mockBatch) Progress() (int, int, int) { return m.done, m.failed, m.total }

func newTestServer(b *mockBatch) *httpadapter.Server {
	return httpadapter.NewServer(":0", b, slog.Default())
}

func get(srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(&mockBatch{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(&mockBatch{}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(&mockBatch{err: errors.New("batch not started")}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusReportsProgress(t *testing.T) {
	rec := get(newTestServer(&mockBatch{done: 3, failed: 1, total: 8}), "/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]int{"done": 3, "failed": 1, "total": 8}, body)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(&mockBatch{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
