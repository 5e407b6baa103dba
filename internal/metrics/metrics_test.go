package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/priyanshtech/TaskManager/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Exposition(t *testing.T) {
	m := metrics.New()

	m.ObserveRequest(http.MethodGet, "/api/tasks", http.StatusOK, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	m.TaskOperation("create", "ok")
	m.TaskOperation("delete", "NOT_FOUND")
	m.SetStoreUp(true)

	body := scrape(t, m)

	assert.Contains(t, body, `taskmanager_http_requests_total{method="GET",route="/api/tasks",status="200"} 1`)
	assert.Contains(t, body, `taskmanager_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `taskmanager_http_request_duration_seconds_count{method="GET",route="/api/tasks"} 1`)
	assert.Contains(t, body, `taskmanager_task_operations_total{op="create",result="ok"} 1`)
	assert.Contains(t, body, `taskmanager_task_operations_total{op="delete",result="NOT_FOUND"} 1`)
	assert.Contains(t, body, "taskmanager_store_up 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_StoreDown(t *testing.T) {
	m := metrics.New()
	m.SetStoreUp(true)
	m.SetStoreUp(false)

	assert.Contains(t, scrape(t, m), "taskmanager_store_up 0")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// два экземпляра не должны конфликтовать при регистрации
	assert.NotPanics(t, func() {
		metrics.New()
		metrics.New()
	})
}
