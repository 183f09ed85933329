package core

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for extraction traffic. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	extractionsTotal   *prometheus.CounterVec
	extractionDuration *prometheus.HistogramVec
	entitiesTotal      *prometheus.CounterVec
	rejectionsTotal    *prometheus.CounterVec
	conversionsActive  prometheus.Gauge
	resultsStored      prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		extractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternhive_extractions_total",
				Help: "Completed extractions by input source",
			},
			[]string{"source"},
		),
		extractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patternhive_extraction_duration_seconds",
				Help:    "Time from accepted input to stored result, including document conversion",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		entitiesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternhive_entities_total",
				Help: "Entities found by category",
			},
			[]string{"category"},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternhive_rejections_total",
				Help: "Rejected requests by error code",
			},
			[]string{"code"},
		),
		conversionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "patternhive_conversions_active",
			Help: "Documents currently being converted to text",
		}),
		resultsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "patternhive_results_stored",
			Help: "Extraction results held in memory",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.extractionsTotal,
		m.extractionDuration,
		m.entitiesTotal,
		m.rejectionsTotal,
		m.conversionsActive,
		m.resultsStored,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) recordExtraction(source string, e *Extraction, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.extractionsTotal.WithLabelValues(source).Inc()
	m.extractionDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.entitiesTotal.WithLabelValues("email").Add(float64(e.Stats.EmailsFound))
	m.entitiesTotal.WithLabelValues("phone").Add(float64(e.Stats.PhonesFound))
	m.entitiesTotal.WithLabelValues("name").Add(float64(e.Stats.NamesFound))
}

// RecordRejection counts an error by its user-facing code.
func (m *Metrics) RecordRejection(err error) {
	if m == nil || err == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(MapError(err).Code).Inc()
}

func (m *Metrics) setConversionsActive(n int) {
	if m == nil {
		return
	}
	m.conversionsActive.Set(float64(n))
}

func (m *Metrics) setResultsStored(n int) {
	if m == nil {
		return
	}
	m.resultsStored.Set(float64(n))
}
