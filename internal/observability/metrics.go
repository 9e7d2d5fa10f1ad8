package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	fallbackNodes   *prometheus.CounterVec
	renderGuard     *prometheus.CounterVec
	extractStrategy *prometheus.CounterVec
	produceDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry, together with the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genui_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		apiLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "genui_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "route"},
		),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "genui_http_inflight_requests",
			Help: "HTTP requests currently being served",
		}),
		fallbackNodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genui_fallback_nodes_total",
				Help: "Nodes substituted with a fallback node, by original type and client platform",
			},
			[]string{"type", "platform"},
		),
		renderGuard: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genui_render_guard_total",
				Help: "Render guard activations by content kind and stage",
			},
			[]string{"kind", "stage"},
		),
		extractStrategy: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genui_extract_strategy_total",
				Help: "Extractions by content kind and the strategy that resolved them",
			},
			[]string{"kind", "strategy"},
		),
		produceDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "genui_produce_duration_seconds",
				Help:    "Time to produce one adapted tree",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
			[]string{"kind"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genui_tree_cache_lookups_total",
				Help: "Rendered-tree cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

// FallbackNode counts one substitution. Types outside the closed enumeration collapse into
// "unknown" to bound label cardinality.
func (m *Metrics) FallbackNode(t component.Type, platform string) {
	if m == nil {
		return
	}
	label := string(t)
	if !component.Known(t) {
		label = "unknown"
	}
	m.fallbackNodes.WithLabelValues(label, platformLabel(platform)).Inc()
}

func (m *Metrics) RenderGuard(kind model.Kind, stage string) {
	if m == nil {
		return
	}
	m.renderGuard.WithLabelValues(kindLabel(kind), stage).Inc()
}

func (m *Metrics) ExtractStrategy(kind model.Kind, strategy string) {
	if m == nil {
		return
	}
	m.extractStrategy.WithLabelValues(kindLabel(kind), strategy).Inc()
}

func (m *Metrics) ObserveProduce(kind model.Kind, dur time.Duration) {
	if m == nil {
		return
	}
	m.produceDuration.WithLabelValues(kindLabel(kind)).Observe(dur.Seconds())
}

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func kindLabel(k model.Kind) string {
	if k == "" {
		return "none"
	}
	return string(k)
}

func platformLabel(p string) string {
	switch p {
	case "":
		return "unknown"
	case "ios", "android", "web", "desktop":
		return p
	default:
		return "other"
	}
}
