package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/dashboard/teacher", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/dashboard/teacher", 200, 40*time.Millisecond)
	m.RecordPrediction("bajo")
	m.RecordPrediction("bajo")
	m.RecordPrediction("bueno")
	m.RecordNotifications(3, 1)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30, snap.AverageRequestDurationMs, 0.5)
	assert.Equal(t, int64(2), snap.Predictions["bajo"])
	assert.Equal(t, int64(1), snap.Predictions["bueno"])
	assert.Equal(t, uint64(3), snap.NotificationsSent)
}

func TestMetricsServiceHandlerExposesRiskCounter(t *testing.T) {
	m := NewMetricsService()
	m.RecordPrediction("regular")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `risk_predictions_total{category="regular"} 1`))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordPrediction("bajo")
	m.RecordCacheOperation(true, time.Millisecond)
	assert.Zero(t, m.Snapshot().RequestsTotal)
}
