package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. Each Metrics owns its
// registry so several servers can live in one process.
type Metrics struct {
	registry        *prometheus.Registry
	scoresTotal     *prometheus.CounterVec
	overallScore    prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scoresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atscore_scores_total",
			Help: "Resumes scored, by rating.",
		}, []string{"rating"}),
		overallScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atscore_overall_score",
			Help:    "Distribution of overall ATS scores.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atscore_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		m.scoresTotal,
		m.overallScore,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveScore records one scored resume.
func (m *Metrics) ObserveScore(rating string, overall int) {
	m.scoresTotal.WithLabelValues(rating).Inc()
	m.overallScore.Observe(float64(overall))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, d time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
