package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, reg)

	m.ObserveGeneration(OutcomeSuccess, 2*time.Second)
	m.ObserveGeneration(OutcomeUpstreamError, time.Second)
	m.ObserveSave(OutcomeError)
	m.ObservePromptBytes(12_000)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues(OutcomeUpstreamError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saves.WithLabelValues(OutcomeError)))

	t.Run("re-registration reuses collectors", func(t *testing.T) {
		again := NewMetrics(reg, reg)
		again.ObserveSave(OutcomeError)
		assert.Equal(t, 2.0, testutil.ToFloat64(m.saves.WithLabelValues(OutcomeError)))
	})

	t.Run("handler exposes the registry", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `teamreport_generation_total{outcome="success"} 1`)
		assert.Contains(t, rec.Body.String(), "teamreport_prompt_bytes_bucket")
	})
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration(OutcomeSuccess, time.Second)
		m.ObserveSave(OutcomeSuccess)
		m.ObservePromptBytes(10)
	})
	assert.NotNil(t, m.Handler())
}
