// Package metrics exposes the frontend's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
)

// Metrics holds the collectors of one registry. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	issuance   *prometheus.CounterVec
	redemption *prometheus.CounterVec
	mounted    prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		issuance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pass_share_issuance_total",
			Help: "Share link requests by path and outcome",
		}, []string{"path", "outcome"}),
		redemption: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pass_share_redemption_total",
			Help: "Share link redemptions by outcome",
		}, []string{"outcome"}),
		mounted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pass_share_pages_mounted",
			Help: "Page instances currently mounted",
		}),
	}
	reg.MustRegister(m.issuance, m.redemption, m.mounted)
	return m
}

func (m *Metrics) Issuance(path, outcome string) {
	if m == nil {
		return
	}
	m.issuance.WithLabelValues(path, outcome).Inc()
}

func (m *Metrics) Redemption(outcome string) {
	if m == nil {
		return
	}
	m.redemption.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PageMounted() {
	if m == nil {
		return
	}
	m.mounted.Inc()
}

func (m *Metrics) PageUnmounted() {
	if m == nil {
		return
	}
	m.mounted.Dec()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
