package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service counters. A nil *Metrics is valid and records
// nothing, so unit tests can pass nil without touching the default registry.
type Metrics struct {
	OwnershipLookups  *prometheus.CounterVec
	AttemptOutcomes   *prometheus.CounterVec
	CheckoutSignature *prometheus.CounterVec
	PaymentStatuses   *prometheus.CounterVec
}

// New registers the service metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OwnershipLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nftmarket",
			Name:      "ownership_lookups_total",
			Help:      "Ownership resolutions by verdict.",
		}, []string{"verdict"}),
		AttemptOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nftmarket",
			Name:      "attempt_outcomes_total",
			Help:      "Terminal transaction attempt states by kind.",
		}, []string{"kind", "state"}),
		CheckoutSignature: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nftmarket",
			Name:      "checkout_signatures_total",
			Help:      "Fiat checkout payload signatures by cache outcome.",
		}, []string{"cache"}),
		PaymentStatuses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nftmarket",
			Name:      "payment_statuses_total",
			Help:      "Fiat payment status events by status.",
		}, []string{"status"}),
	}
}

// RecordOwnership counts one resolver verdict.
func (m *Metrics) RecordOwnership(verdict string) {
	if m == nil {
		return
	}
	m.OwnershipLookups.WithLabelValues(verdict).Inc()
}

// RecordAttemptOutcome counts one terminal attempt state.
func (m *Metrics) RecordAttemptOutcome(kind, state string) {
	if m == nil {
		return
	}
	m.AttemptOutcomes.WithLabelValues(kind, state).Inc()
}

// RecordCheckoutSignature counts one signature request, cache hit or miss.
func (m *Metrics) RecordCheckoutSignature(cache string) {
	if m == nil {
		return
	}
	m.CheckoutSignature.WithLabelValues(cache).Inc()
}

// RecordPaymentStatus counts one widget payment status event.
func (m *Metrics) RecordPaymentStatus(status string) {
	if m == nil {
		return
	}
	m.PaymentStatuses.WithLabelValues(status).Inc()
}
