package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auction"

// PrometheusMetrics implements card.MetricsCollector and tracks websocket connections
type PrometheusMetrics struct {
	cardsMounted   prometheus.Gauge
	timersAcquired prometheus.Counter
	timersReleased prometheus.Counter
	bids           *prometheus.CounterVec
	connections    prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewPrometheusMetrics registers the auction collectors with a fresh registry
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	m := &PrometheusMetrics{
		cardsMounted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cards_mounted",
			Help:      "Cards with a running countdown timer.",
		}),
		timersAcquired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timers_acquired_total",
			Help:      "Card timers acquired on mount.",
		}),
		timersReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timers_released_total",
			Help:      "Card timers released on unmount.",
		}),
		bids: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_total",
			Help:      "Bid actions by result.",
		}, []string{"result"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open live-view websocket connections.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.cardsMounted,
		m.timersAcquired,
		m.timersReleased,
		m.bids,
		m.connections,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *PrometheusMetrics) TimerAcquired() {
	m.timersAcquired.Inc()
	m.cardsMounted.Inc()
}

func (m *PrometheusMetrics) TimerReleased() {
	m.timersReleased.Inc()
	m.cardsMounted.Dec()
}

func (m *PrometheusMetrics) BidPlaced(accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	m.bids.WithLabelValues(result).Inc()
}

// ConnectionOpened and ConnectionClosed track the live-view connection gauge
func (m *PrometheusMetrics) ConnectionOpened() { m.connections.Inc() }
func (m *PrometheusMetrics) ConnectionClosed() { m.connections.Dec() }

// Handler serves the registry in the Prometheus exposition format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
