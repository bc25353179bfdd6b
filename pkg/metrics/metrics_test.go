package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCommand(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCommand("SetRule", nil)
	m.ObserveCommand("SetRule", errors.New("failed"))
	m.ObserveCommand("SetRule", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("SetRule", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("SetRule", StatusFailure)))
}

func TestObservePersistAndLoaded(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePersist(errors.New("empty response"))
	m.SetLoaded("Tu-1", 3)
	m.ObserveDuration("add_or_replace", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistTotal.WithLabelValues(StatusFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RulesLoaded.WithLabelValues("Tu-1")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommand("DeleteRule", nil)
		m.ObservePersist(nil)
		m.ObserveDuration("delete", time.Now())
		m.SetLoaded("Tu-1", 0)
	})
}
