package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sia-rendimiento-api/internal/service"
)

type readyStub struct{ err error }

func (r readyStub) Ready() error { return r.err }

func TestMetricsHandlerHealth(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health", nil)
	NewMetricsHandler(service.NewMetricsService(), readyStub{}).Health(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/health", nil)
	NewMetricsHandler(service.NewMetricsService(), readyStub{err: errors.New("risk model unavailable")}).Health(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestMetricsHandlerSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordPrediction("bajo")
	c, rec := newTestContext(http.MethodGet, "/api/v1/metrics/summary", nil)

	NewMetricsHandler(metrics, nil).Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bajo":1`)
}
