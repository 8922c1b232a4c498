package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/railzwaylabs/idsrvctl/internal/reconcile"
)

const namespace = "idsrv"

type Metrics struct {
	reconciles *prometheus.CounterVec
	mutations  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciles_total",
			Help:      "Reconcile runs by aggregate kind and outcome.",
		}, []string{"kind", "outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "child_mutations_total",
			Help:      "Committed child row inserts and deletes.",
		}, []string{"kind", "collection", "op"}),
	}
	for _, c := range []prometheus.Collector{m.reconciles, m.mutations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveReconcile records one reconcile run. Mutations are only counted for
// runs that committed. A nil receiver is a no-op.
func (m *Metrics) ObserveReconcile(kind string, cs *reconcile.ChangeSet, err error) {
	if m == nil {
		return
	}
	m.reconciles.WithLabelValues(kind, outcome(err)).Inc()
	if err != nil || cs == nil {
		return
	}
	for name, c := range cs.Summary() {
		if c.Added > 0 {
			m.mutations.WithLabelValues(kind, name, "insert").Add(float64(c.Added))
		}
		if c.Removed > 0 {
			m.mutations.WithLabelValues(kind, name, "delete").Add(float64(c.Removed))
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, reconcile.ErrNotFound):
		return "not_found"
	case errors.Is(err, reconcile.ErrAmbiguousKey):
		return "ambiguous_key"
	case errors.Is(err, reconcile.ErrInconsistent):
		return "inconsistent"
	case errors.Is(err, reconcile.ErrStore):
		return "store_error"
	default:
		return "error"
	}
}
