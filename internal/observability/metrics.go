package observability

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeNotFound      = "not_found"
	OutcomeUpstreamError = "upstream_error"
	OutcomeError         = "error"
)

// Metrics exposes the Prometheus collectors of report generation and saving.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	saves       *prometheus.CounterVec
	promptBytes prometheus.Histogram
	gatherer    prometheus.Gatherer
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics returns the instance registered with the global Prometheus registry.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = NewMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return sharedMetrics
}

// NewMetrics registers the collectors with reg. Collectors that are already
// registered are reused, so building Metrics twice against one registry is safe.
// gatherer backs Handler; nil means the default gatherer.
func NewMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Metrics{
		generations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamreport",
			Name:      "generation_total",
			Help:      "Report generation attempts by outcome.",
		}, []string{"outcome"})),
		duration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "teamreport",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of report generation, including the text generator call.",
			Buckets:   []float64{1, 5, 10, 20, 30, 45, 60, 90, 120, 180},
		})),
		saves: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamreport",
			Name:      "report_saves_total",
			Help:      "Report persistence attempts by outcome.",
		}, []string{"outcome"})),
		promptBytes: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "teamreport",
			Name:      "prompt_bytes",
			Help:      "Size of compiled prompts in bytes.",
			Buckets:   prometheus.ExponentialBuckets(4096, 2, 8),
		})),
		gatherer: gatherer,
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveGeneration records one generation attempt.
func (m *Metrics) ObserveGeneration(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveSave records one persistence attempt.
func (m *Metrics) ObserveSave(outcome string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(outcome).Inc()
}

// ObservePromptBytes records the size of a compiled prompt.
func (m *Metrics) ObservePromptBytes(n int) {
	if m == nil {
		return
	}
	m.promptBytes.Observe(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
