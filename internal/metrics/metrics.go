package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for engine commands.
type Collector struct {
	registry       *prometheus.Registry
	commandsTotal  *prometheus.CounterVec
	pendingReviews *prometheus.GaugeVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	return &Collector{
		registry: registry,
		commandsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "engine_commands_total",
			Help: "Engine commands processed, by operation and outcome",
		}, []string{"op", "outcome"}),
		pendingReviews: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "engine_pending_reviews",
			Help: "Requests and submissions currently awaiting review",
		}, []string{"kind"}),
	}
}

// RecordCommand counts one command invocation with its outcome.
func (c *Collector) RecordCommand(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	c.commandsTotal.WithLabelValues(op, outcome).Inc()
}

// SetPendingReviews sets the pending-review gauge for one entity kind.
func (c *Collector) SetPendingReviews(kind string, n int) {
	c.pendingReviews.WithLabelValues(kind).Set(float64(n))
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
