package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/railzwaylabs/idsrvctl/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveReconcile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	cs := reconcile.NewChangeSet("client", "c1", nil)
	cs.Insert("redirect_uris", struct{}{})
	cs.Delete("redirect_uris", struct{}{})
	cs.Insert("claims", struct{}{})

	m.ObserveReconcile("client", cs, nil)
	m.ObserveReconcile("client", nil, &reconcile.Error{Kind: "client", Key: "ghost", Err: reconcile.ErrNotFound})
	m.ObserveReconcile("scope", nil, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciles.WithLabelValues("client", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciles.WithLabelValues("client", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciles.WithLabelValues("scope", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("client", "redirect_uris", "insert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("client", "redirect_uris", "delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("client", "claims", "insert")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveReconcile("client", nil, nil) })
}

func TestOutcome(t *testing.T) {
	tests := map[string]error{
		"ok":            nil,
		"ambiguous_key": &reconcile.Error{Err: reconcile.ErrAmbiguousKey},
		"inconsistent":  &reconcile.Error{Err: reconcile.ErrInconsistent},
		"store_error":   &reconcile.Error{Err: reconcile.ErrStore, Cause: errors.New("conn reset")},
	}
	for want, err := range tests {
		assert.Equal(t, want, outcome(err))
	}
}
