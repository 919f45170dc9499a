package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
// Each collector owns its registry so several can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Editor metrics
	GraphMutations     *prometheus.CounterVec
	Prompts            *prometheus.CounterVec
	PromptDuration     prometheus.Histogram
	Generations        prometheus.Counter
	GenerationWarnings prometheus.Counter
	GenerationDuration prometheus.Histogram
	ActiveSessions     prometheus.Gauge
	WebSocketClients   prometheus.Gauge
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		GraphMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_mutations_total",
			Help:      "Committed graph mutations by kind (node, edge, replace)",
		}, []string{"kind"}),
		Prompts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_total",
			Help:      "Prompt submissions by outcome",
		}, []string{"outcome"}),
		PromptDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_duration_seconds",
			Help:      "Time from prompt submission to outcome, including simulated latency",
			Buckets:   []float64{.05, .1, .25, .5, 1, 1.5, 2, 5, 10},
		}),
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of code artifacts generated",
		}),
		GenerationWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_warnings_total",
			Help:      "Total number of warnings attached to generated artifacts",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Code generation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of open editor sessions",
		}),
		WebSocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.GraphMutations,
		c.Prompts,
		c.PromptDuration,
		c.Generations,
		c.GenerationWarnings,
		c.GenerationDuration,
		c.ActiveSessions,
		c.WebSocketClients,
	)
	return c
}

// RecordGraphMutation counts a committed mutation
func (c *Collector) RecordGraphMutation(kind string) {
	c.GraphMutations.WithLabelValues(kind).Inc()
}

// RecordPrompt counts a prompt outcome and its duration
func (c *Collector) RecordPrompt(outcome string, d time.Duration) {
	c.Prompts.WithLabelValues(outcome).Inc()
	c.PromptDuration.Observe(d.Seconds())
}

// RecordGeneration counts a generated artifact
func (c *Collector) RecordGeneration(warnings int, d time.Duration) {
	c.Generations.Inc()
	c.GenerationWarnings.Add(float64(warnings))
	c.GenerationDuration.Observe(d.Seconds())
}

// SetActiveSessions reports the open session count
func (c *Collector) SetActiveSessions(n int) {
	c.ActiveSessions.Set(float64(n))
}

// SetWebSocketClients reports the connected client count
func (c *Collector) SetWebSocketClients(n int) {
	c.WebSocketClients.Set(float64(n))
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
