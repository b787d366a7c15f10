package metrics

import "github.com/prometheus/client_golang/prometheus"

// CommerceMetrics records the payment and settlement counters exposed on
// /metrics.
type CommerceMetrics struct {
	paymentIntents *prometheus.CounterVec
	salesRecorded  prometheus.Counter
	subscriptions  prometheus.Counter
}

// NewCommerceMetrics registers the commerce counters on the provided
// registerer. A nil registerer yields a no-op recorder, which keeps services
// testable without a registry.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	paymentIntents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_intents_created_total",
		Help: "Payment intents created, by product.",
	}, []string{"product"})
	salesRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "artwork_sales_recorded_total",
		Help: "Artwork sales committed to the catalog.",
	})
	subscriptions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "subscriptions_confirmed_total",
		Help: "Lifetime subscriptions confirmed.",
	})
	reg.MustRegister(paymentIntents, salesRecorded, subscriptions)
	return &CommerceMetrics{
		paymentIntents: paymentIntents,
		salesRecorded:  salesRecorded,
		subscriptions:  subscriptions,
	}
}

// IncPaymentIntent counts a created intent for the given product label.
func (m *CommerceMetrics) IncPaymentIntent(product string) {
	if m == nil || m.paymentIntents == nil {
		return
	}
	m.paymentIntents.WithLabelValues(product).Inc()
}

// IncSaleRecorded counts a committed artwork sale.
func (m *CommerceMetrics) IncSaleRecorded() {
	if m == nil || m.salesRecorded == nil {
		return
	}
	m.salesRecorded.Inc()
}

// IncSubscriptionConfirmed counts a confirmed subscription.
func (m *CommerceMetrics) IncSubscriptionConfirmed() {
	if m == nil || m.subscriptions == nil {
		return
	}
	m.subscriptions.Inc()
}
