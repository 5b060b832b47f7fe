package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "namereg"

// Metrics is safe to use through a nil pointer, in which case nothing is
// recorded.
type Metrics struct {
	invocations     *prometheus.CounterVec
	feesPaid        *prometheus.CounterVec
	startupFailures *prometheus.CounterVec
}

func New(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Contract invocations by operation and result",
		}, []string{"operation", "result"}),
		feesPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_paid_gwei_total",
			Help:      "Reservation fees paid by successful invocations, in gwei",
		}, []string{"operation"}),
		startupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "startup_failures_total",
			Help:      "Failed startup steps by reason",
		}, []string{"reason"}),
	}
	for _, c := range []prometheus.Collector{m.invocations, m.feesPaid, m.startupFailures} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Invocation(operation string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.invocations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) FeePaid(operation string, gwei float64) {
	if m == nil || gwei <= 0 {
		return
	}
	m.feesPaid.WithLabelValues(operation).Add(gwei)
}

func (m *Metrics) StartupFailure(reason string) {
	if m == nil {
		return
	}
	m.startupFailures.WithLabelValues(reason).Inc()
}
