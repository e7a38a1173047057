package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the server's Prometheus instruments on a private
// registry so tests can run side by side.
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsTotal    prometheus.Counter
	PlayersConnected    prometheus.Gauge
	SpectatorsConnected prometheus.Gauge
	HandsTotal          prometheus.Counter
	ActionsTotal        *prometheus.CounterVec
	TimeoutsTotal       prometheus.Counter
	ErrorsTotal         *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "arena_connections_total",
			Help: "Websocket connections accepted.",
		}),
		PlayersConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "arena_players_connected",
			Help: "Player connections currently open.",
		}),
		SpectatorsConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "arena_spectators_connected",
			Help: "Spectator connections currently open.",
		}),
		HandsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "arena_hands_total",
			Help: "Hands played to completion.",
		}),
		ActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_actions_total",
			Help: "Betting actions applied, by action.",
		}, []string{"action"}),
		TimeoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "arena_timeouts_total",
			Help: "Turns resolved by the move timer.",
		}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_protocol_errors_total",
			Help: "Error frames sent to clients, by code.",
		}, []string{"code"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
