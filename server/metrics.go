package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the poll-loop instrumentation.
type Metrics struct {
	Polls        *prometheus.CounterVec
	LastPoll     *prometheus.GaugeVec
	Upcoming     *prometheus.GaugeVec
	EventsServed prometheus.Counter
}

// Poll result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// NewMetrics registers the calwatch metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Polls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "calwatch_polls_total",
			Help: "Entity update attempts by result.",
		}, []string{"entity", "result"}),
		LastPoll: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "calwatch_last_poll_timestamp_seconds",
			Help: "Unix time of the last update attempt per entity.",
		}, []string{"entity"}),
		Upcoming: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "calwatch_upcoming_event",
			Help: "Whether the entity currently has an upcoming event.",
		}, []string{"entity"}),
		EventsServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "calwatch_entity_requests_total",
			Help: "Entity state requests served over HTTP.",
		}),
	}
}
