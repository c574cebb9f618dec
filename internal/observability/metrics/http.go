package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	scansSubmittedTotal *prometheus.CounterVec
	quotaDeniedTotal    *prometheus.CounterVec
	reportRendersTotal  *prometheus.CounterVec
	checkoutEventsTotal *prometheus.CounterVec
	llmTokensTotal      *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexodify",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nexodify",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	scansSubmittedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "analysis",
			Name:      "scans_submitted_total",
			Help:      "Total accepted scan submissions by kind.",
		},
		[]string{"service", "kind"},
	)
	quotaDeniedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "analysis",
			Name:      "quota_denied_total",
			Help:      "Total requests rejected for exhausted quota.",
		},
		[]string{"service", "kind"},
	)
	reportRendersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "report",
			Name:      "renders_total",
			Help:      "Total rendered client reports by format.",
		},
		[]string{"service", "format"},
	)
	checkoutEventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "billing",
			Name:      "checkout_events_total",
			Help:      "Total checkout lifecycle events by outcome.",
		},
		[]string{"service", "event"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexodify",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Approximate token usage by direction.",
		},
		[]string{"service", "endpoint", "direction", "model"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		scansSubmittedTotal,
		quotaDeniedTotal,
		reportRendersTotal,
		checkoutEventsTotal,
		llmTokensTotal,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		scansSubmittedTotal: scansSubmittedTotal,
		quotaDeniedTotal:    quotaDeniedTotal,
		reportRendersTotal:  reportRendersTotal,
		checkoutEventsTotal: checkoutEventsTotal,
		llmTokensTotal:      llmTokensTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath keeps identifier segments out of the path label.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/analysis/perizia/"):
		rest := strings.TrimPrefix(path, "/api/analysis/perizia/")
		if strings.HasSuffix(rest, "/headline") {
			return "/api/analysis/perizia/{analysis_id}/headline"
		}
		if strings.HasSuffix(rest, "/html") {
			return "/api/analysis/perizia/{analysis_id}/html"
		}
		if strings.HasSuffix(rest, "/pdf") {
			return "/api/analysis/perizia/{analysis_id}/pdf"
		}
		return "/api/analysis/perizia/{analysis_id}"
	case strings.HasPrefix(path, "/api/history/perizia/"):
		return "/api/history/perizia/{analysis_id}"
	case strings.HasPrefix(path, "/api/checkout/status/"):
		return "/api/checkout/status/{session_id}"
	case strings.HasPrefix(path, "/api/admin/users/"):
		return "/api/admin/users/{user_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordScanSubmitted(service, kind string) {
	m.scansSubmittedTotal.WithLabelValues(service, kind).Inc()
}

func (m *HTTPServerMetrics) RecordQuotaDenied(service, kind string) {
	m.quotaDeniedTotal.WithLabelValues(service, kind).Inc()
}

func (m *HTTPServerMetrics) RecordReportRender(service, format string) {
	m.reportRendersTotal.WithLabelValues(service, format).Inc()
}

func (m *HTTPServerMetrics) RecordCheckoutEvent(service, event string) {
	if event == "" {
		event = "unknown"
	}
	m.checkoutEventsTotal.WithLabelValues(service, event).Inc()
}

func (m *HTTPServerMetrics) RecordTokenUsage(service, endpoint, model string, promptTokens, completionTokens int) {
	if model == "" {
		model = "unknown"
	}
	if promptTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, endpoint, "in", model).Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, endpoint, "out", model).Add(float64(completionTokens))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
