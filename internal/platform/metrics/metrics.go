package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client's Prometheus collectors.
type Metrics struct {
	// Registration attempts by role and error kind ("ok" on success)
	Registrations *prometheus.CounterVec

	// Login attempts by role and error kind
	Logins *prometheus.CounterVec

	// Documents published whose ledger commit did not succeed
	OrphanedDocuments prometheus.Counter

	// Remote call latency by component ("store", "ledger") and operation
	RemoteCallDuration *prometheus.HistogramVec
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shdms_registrations_total",
			Help: "Registration attempts by role and outcome",
		}, []string{"role", "outcome"}),

		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shdms_logins_total",
			Help: "Login attempts by role and outcome",
		}, []string{"role", "outcome"}),

		OrphanedDocuments: factory.NewCounter(prometheus.CounterOpts{
			Name: "shdms_orphaned_documents_total",
			Help: "Published documents that were never committed to the ledger",
		}),

		RemoteCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shdms_remote_call_duration_seconds",
			Help:    "Duration of content store and ledger calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"component", "operation"}),
	}
}

// IncRegistration records a registration outcome.
func (m *Metrics) IncRegistration(role, outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(role, outcome).Inc()
	}
}

// IncLogin records a login outcome.
func (m *Metrics) IncLogin(role, outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(role, outcome).Inc()
	}
}

func (m *Metrics) IncOrphaned() {
	if m != nil {
		m.OrphanedDocuments.Inc()
	}
}

// ObserveRemoteCall records the duration of one store or ledger call.
func (m *Metrics) ObserveRemoteCall(component, operation string, d time.Duration) {
	if m != nil {
		m.RemoteCallDuration.WithLabelValues(component, operation).Observe(d.Seconds())
	}
}
