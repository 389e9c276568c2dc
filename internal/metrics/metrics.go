// Package metrics exposes Graph Store activity as Prometheus collectors.
package metrics

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/layergraph/pkg/domain"
)

// Collector counts applied and rejected mutations.
type Collector struct {
	mutations  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	logger     *slog.Logger
}

// New creates the collectors and registers them with reg.
// A nil logger disables mutation logging.
func New(reg prometheus.Registerer, logger *slog.Logger) (*Collector, error) {
	c := &Collector{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "layergraph_mutations_total",
				Help: "Total number of applied graph store mutations",
			},
			[]string{"type"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "layergraph_mutation_rejections_total",
				Help: "Total number of rejected graph store mutations",
			},
			[]string{"type", "reason"},
		),
		logger: logger,
	}
	for _, col := range []prometheus.Collector{c.mutations, c.rejections} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns store hooks feeding the collectors.
func (c *Collector) Hooks() domain.MutationHooks {
	return domain.MutationHooks{
		OnMutation: func(e *domain.MutationEvent) {
			c.mutations.WithLabelValues(string(e.Type)).Inc()
			if c.logger != nil {
				c.logger.Debug("mutation", "type", e.Type, "nodes", e.NodeIDs)
			}
		},
		OnReject: func(r *domain.MutationRejection) {
			c.rejections.WithLabelValues(string(r.Type), Reason(r.Err)).Inc()
			if c.logger != nil {
				c.logger.Info("mutation rejected", "type", r.Type, "error", r.Err)
			}
		},
	}
}

var reasons = []struct {
	err  error
	name string
}{
	{domain.ErrTypeMismatch, "type_mismatch"},
	{domain.ErrIncompatibleDirection, "incompatible_direction"},
	{domain.ErrPortBlocked, "port_blocked"},
	{domain.ErrPortDriven, "port_driven"},
	{domain.ErrCycleDetected, "cycle_detected"},
	{domain.ErrDuplicateID, "duplicate_id"},
	{domain.ErrEmptyID, "empty_id"},
	{domain.ErrNodeNotFound, "node_not_found"},
	{domain.ErrPortNotFound, "port_not_found"},
}

// Reason maps a rejection error to a low-cardinality label.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return "other"
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
