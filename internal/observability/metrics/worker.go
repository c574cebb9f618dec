package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	analyzeTotal    *prometheus.CounterVec
	analyzeDuration *prometheus.HistogramVec
	analyzeInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec
	fallbackTotal   *prometheus.CounterVec
	extractedPages  *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	analyzeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "worker",
			Name:      "perizia_analyze_total",
			Help:      "Total processed perizia analyses by status.",
		},
		[]string{"service", "status"},
	)
	analyzeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexodify",
			Subsystem: "worker",
			Name:      "perizia_analyze_duration_seconds",
			Help:      "Perizia analysis duration in seconds by status.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 180, 300},
		},
		[]string{"service", "status"},
	)
	analyzeInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nexodify",
			Subsystem: "worker",
			Name:      "perizia_analyze_in_flight",
			Help:      "Number of in-flight perizia analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexodify",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between upload and analysis start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "worker",
			Name:      "fallback_verdicts_total",
			Help:      "Verdicts replaced by the deterministic fallback after schema rejection.",
		},
		[]string{"service", "reason"},
	)
	extractedPages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexodify",
			Subsystem: "worker",
			Name:      "extracted_pages",
			Help:      "Pages extracted per uploaded document.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 200, 500},
		},
		[]string{"service"},
	)

	registry.MustRegister(analyzeTotal, analyzeDuration, analyzeInFlight, queueLag, fallbackTotal, extractedPages)

	return &WorkerMetrics{
		registry:        registry,
		analyzeTotal:    analyzeTotal,
		analyzeDuration: analyzeDuration,
		analyzeInFlight: analyzeInFlight,
		queueLag:        queueLag,
		fallbackTotal:   fallbackTotal,
		extractedPages:  extractedPages,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartAnalysis() {
	m.analyzeInFlight.Inc()
}

func (m *WorkerMetrics) FinishAnalysis(service string, duration time.Duration, err error) {
	m.analyzeInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.analyzeTotal.WithLabelValues(service, status).Inc()
	m.analyzeDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordFallbackVerdict(service, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.fallbackTotal.WithLabelValues(service, reason).Inc()
}

func (m *WorkerMetrics) ObserveExtractedPages(service string, pages int) {
	if pages <= 0 {
		return
	}
	m.extractedPages.WithLabelValues(service).Observe(float64(pages))
}
