package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry             *prometheus.Registry
	httpRequests         *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	overlayLayersCreated prometheus.Counter
	overlayLayersRemoved prometheus.Counter
	focusTransitions     *prometheus.CounterVec
	routingRequests      *prometheus.CounterVec
	routingDuration      prometheus.Histogram
}

// New creates a fresh Metrics registry with HTTP, overlay and routing
// metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed by core-go",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campus",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by core-go",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	overlayLayersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "overlay_layers_created_total",
		Help:      "Total number of map layers created by overlay managers",
	})

	overlayLayersRemoved := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "overlay_layers_removed_total",
		Help:      "Total number of map layers removed by overlay managers",
	})

	focusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "focus_transitions_total",
		Help:      "Viewport focus state transitions by resulting state",
	}, []string{"state"})

	routingRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "routing_requests_total",
		Help:      "Outdoor routing requests by outcome",
	}, []string{"outcome"})

	routingDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "campus",
		Name:      "routing_request_duration_seconds",
		Help:      "Duration of outdoor routing requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		overlayLayersCreated,
		overlayLayersRemoved,
		focusTransitions,
		routingRequests,
		routingDuration,
	)

	return &Metrics{
		registry:             registry,
		httpRequests:         httpRequests,
		httpRequestDuration:  httpRequestDuration,
		overlayLayersCreated: overlayLayersCreated,
		overlayLayersRemoved: overlayLayersRemoved,
		focusTransitions:     focusTransitions,
		routingRequests:      routingRequests,
		routingDuration:      routingDuration,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// AddOverlayLayers records layer churn from one overlay transition.
func (m *Metrics) AddOverlayLayers(created, removed int) {
	if m == nil {
		return
	}
	if created > 0 {
		m.overlayLayersCreated.Add(float64(created))
	}
	if removed > 0 {
		m.overlayLayersRemoved.Add(float64(removed))
	}
}

// IncFocusTransition counts a viewport focus transition.
func (m *Metrics) IncFocusTransition(state string) {
	if m == nil {
		return
	}
	m.focusTransitions.WithLabelValues(state).Inc()
}

// IncRoutingRequest counts an outdoor routing request outcome
// ("ok", "failed" or "superseded").
func (m *Metrics) IncRoutingRequest(outcome string) {
	if m == nil {
		return
	}
	m.routingRequests.WithLabelValues(outcome).Inc()
}

// ObserveRoutingDuration observes one routing round trip.
func (m *Metrics) ObserveRoutingDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.routingDuration.Observe(duration.Seconds())
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
