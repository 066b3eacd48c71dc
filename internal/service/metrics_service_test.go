package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/pkg/jobs"
)

func scrape(t *testing.T, m *MetricsService) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetricsSnapshotTotals(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/grid", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/grid", http.StatusOK, 30*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveGridSave(grid.SaveResult{Results: []grid.OpResult{
		{Op: grid.WriteOp{Kind: grid.OpCreate}},
		{Op: grid.WriteOp{Kind: grid.OpUpdate}, Err: errors.New("conflict")},
	}}, 50*time.Millisecond)

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.EqualValues(t, 2, snap.CacheHits)
	assert.EqualValues(t, 1, snap.CacheMisses)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 1e-9)
	assert.EqualValues(t, 1, snap.GridSaves)
	assert.EqualValues(t, 1, snap.FailedRecordWrites)

	body := scrape(t, m)
	assert.Contains(t, body, `renoa_cache_lookups_total{result="hit"} 2`)
	assert.Contains(t, body, `outcome="error"`)
}

func TestMetricsRegisterQueue(t *testing.T) {
	m := NewMetricsService()
	stats := func() jobs.Stats { return jobs.Stats{Buffered: 3, Failed: 1} }

	require.NoError(t, m.RegisterQueue("notifications", stats))
	require.NoError(t, m.RegisterQueue("notifications", stats))

	body := scrape(t, m)
	assert.Contains(t, body, `renoa_queue_buffered_jobs{queue="notifications"} 3`)
	assert.Contains(t, body, `renoa_queue_failed_jobs{queue="notifications"} 1`)
}

func TestMetricsNilService(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	assert.NoError(t, m.RegisterQueue("x", nil))
	assert.Zero(t, m.Snapshot())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
