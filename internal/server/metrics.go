package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every exported metric name.
const MetricsNamespace = "kolam_mcp"

// Metrics holds the Prometheus collectors for one server.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls         *prometheus.CounterVec
	ToolDuration      *prometheus.HistogramVec
	PatternsGenerated *prometheus.CounterVec
	ImagesAnalyzed    *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry. cachedImages, when
// not nil, is sampled for the cached image gauge.
func NewMetrics(cachedImages func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool calls",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Tool call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		PatternsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "patterns_generated_total",
				Help:      "Total number of rendered patterns",
			},
			[]string{"type", "format"},
		),
		ImagesAnalyzed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "images_analyzed_total",
				Help:      "Total number of analyzed images",
			},
			[]string{"policy"},
		),
	}

	m.registry.MustRegister(m.ToolCalls, m.ToolDuration, m.PatternsGenerated, m.ImagesAnalyzed)
	if cachedImages != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: MetricsNamespace,
				Name:      "cached_images",
				Help:      "Number of decoded images held in the cache",
			},
			func() float64 { return float64(cachedImages()) },
		))
	}
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// unknownTool is the tool label for calls naming a tool the server does
// not define.
const unknownTool = "unknown"

var knownTools = func() map[string]bool {
	names := make(map[string]bool)
	for _, tool := range GetToolDefinitions() {
		names[tool.Name] = true
	}
	return names
}()

// observeCall records one tool call.
func (m *Metrics) observeCall(tool string, elapsed time.Duration, err error) {
	if !knownTools[tool] {
		tool = unknownTool
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ToolCalls.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// HTTPHandler serves /metrics in the Prometheus text format and /health for
// liveness checks. The MCP protocol itself stays on stdio.
func (s *Server) HTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return r
}
