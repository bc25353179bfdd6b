package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics bundles the rule manager metrics.
type Metrics struct {
	CommandsTotal     *prometheus.CounterVec
	PersistTotal      *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	RulesLoaded       *prometheus.GaugeVec
}

// New constructs the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rules_commands_total",
				Help: "Total rule commands dispatched to devices by command and status",
			},
			[]string{"command", "status"},
		),
		PersistTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rules_persist_total",
				Help: "Total rule list writes to the record store by status",
			},
			[]string{"status"},
		),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rules_operation_duration_seconds",
			Help:    "Rule manager operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		RulesLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rules_loaded",
			Help: "Rules currently held in memory per device",
		}, []string{"device"}),
	}
	reg.MustRegister(
		m.CommandsTotal,
		m.PersistTotal,
		m.OperationDuration,
		m.RulesLoaded,
	)
	return m
}

func status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

// ObserveCommand is safe on a nil *Metrics.
func (m *Metrics) ObserveCommand(command string, err error) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, status(err)).Inc()
}

func (m *Metrics) ObservePersist(err error) {
	if m == nil {
		return
	}
	m.PersistTotal.WithLabelValues(status(err)).Inc()
}

func (m *Metrics) ObserveDuration(operation string, started time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) SetLoaded(device string, count int) {
	if m == nil {
		return
	}
	m.RulesLoaded.WithLabelValues(device).Set(float64(count))
}
