package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records counters for the commerce core.
type OrderMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	ordersCreated    *prometheus.CounterVec
	billsCreated     *prometheus.CounterVec
	paymentsVerified prometheus.Counter
	stockConflicts   prometheus.Counter
}

// NewOrderMetrics registers the commerce metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labeled by payment method.",
	}, []string{"payment_method"})
	billsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offline_bills_created_total",
		Help: "Counter bills created, labeled by payment method.",
	}, []string{"payment_method"})
	paymentsVerified := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "UPI payments verified by the owner.",
	})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflicts_total",
		Help: "Checkout or billing attempts rejected for insufficient stock.",
	})
	reg.MustRegister(checkoutDuration, ordersCreated, billsCreated, paymentsVerified, stockConflicts)
	return &OrderMetrics{
		checkoutDuration: checkoutDuration,
		ordersCreated:    ordersCreated,
		billsCreated:     billsCreated,
		paymentsVerified: paymentsVerified,
		stockConflicts:   stockConflicts,
	}
}

// ObserveCheckoutDuration records how long a checkout transaction took.
func (o *OrderMetrics) ObserveCheckoutDuration(channel string, duration time.Duration) {
	if o == nil || o.checkoutDuration == nil {
		return
	}
	o.checkoutDuration.WithLabelValues(normalizeLabel(channel)).Observe(duration.Seconds())
}

// IncOrdersCreated increments the orders counter for the payment method.
func (o *OrderMetrics) IncOrdersCreated(paymentMethod string) {
	if o == nil || o.ordersCreated == nil {
		return
	}
	o.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncBillsCreated increments the counter bill counter for the payment method.
func (o *OrderMetrics) IncBillsCreated(paymentMethod string) {
	if o == nil || o.billsCreated == nil {
		return
	}
	o.billsCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncPaymentsVerified increments the verified payment counter.
func (o *OrderMetrics) IncPaymentsVerified() {
	if o == nil || o.paymentsVerified == nil {
		return
	}
	o.paymentsVerified.Inc()
}

// IncStockConflicts increments the insufficient stock counter.
func (o *OrderMetrics) IncStockConflicts() {
	if o == nil || o.stockConflicts == nil {
		return
	}
	o.stockConflicts.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
