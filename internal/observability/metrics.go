// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the use cases report to
type Recorder interface {
	RecordProjection(method, outcome string, duration time.Duration)
	RecordFallback(source string)
	RecordPromotionCheck(model string, found bool)
}

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ProjectionsTotal   *prometheus.CounterVec
	ProjectionDuration *prometheus.HistogramVec
	FallbacksTotal     *prometheus.CounterVec
	PromotionChecks    *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		ProjectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicleplan",
			Name:      "projections_total",
			Help:      "Projection requests by payment method and outcome.",
		}, []string{"method", "outcome"}),
		ProjectionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vehicleplan",
			Name:      "projection_duration_seconds",
			Help:      "Time spent computing a projection, collaborator calls included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicleplan",
			Name:      "fallbacks_total",
			Help:      "Times a collaborator was unavailable and a fallback value was used.",
		}, []string{"source"}),
		PromotionChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicleplan",
			Name:      "promotion_checks_total",
			Help:      "Promotion checks by model and result.",
		}, []string{"model", "found"}),
		registry: reg,
	}
}

// RecordProjection counts a projection and observes its duration.
func (m *Metrics) RecordProjection(method, outcome string, duration time.Duration) {
	m.ProjectionsTotal.WithLabelValues(method, outcome).Inc()
	m.ProjectionDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordFallback counts a fallback substitution.
func (m *Metrics) RecordFallback(source string) {
	m.FallbacksTotal.WithLabelValues(source).Inc()
}

// RecordPromotionCheck counts a promotion check.
func (m *Metrics) RecordPromotionCheck(model string, found bool) {
	label := "false"
	if found {
		label = "true"
	}
	m.PromotionChecks.WithLabelValues(model, label).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type nopRecorder struct{}

func (nopRecorder) RecordProjection(string, string, time.Duration) {}
func (nopRecorder) RecordFallback(string)                          {}
func (nopRecorder) RecordPromotionCheck(string, bool)              {}

// Nop returns a Recorder that discards everything.
func Nop() Recorder {
	return nopRecorder{}
}
