package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order placement and cancellation outcomes.
type CheckoutMetrics struct {
	ordersCreated     *prometheus.CounterVec
	ordersCancelled   prometheus.Counter
	insufficientStock prometheus.Counter
	orderValue        prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully placed, by checkout mode.",
	}, []string{"checkout_mode"})
	ordersCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled by customers or staff.",
	})
	insufficientStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_insufficient_stock_total",
		Help: "Order attempts rejected because a variant ran out of stock.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_value",
		Help:    "Grand total of placed orders.",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000},
	})
	reg.MustRegister(ordersCreated, ordersCancelled, insufficientStock, orderValue)
	return &CheckoutMetrics{
		ordersCreated:     ordersCreated,
		ordersCancelled:   ordersCancelled,
		insufficientStock: insufficientStock,
		orderValue:        orderValue,
	}
}

// IncOrderCreated counts a placed order under its checkout mode.
func (c *CheckoutMetrics) IncOrderCreated(mode string) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncOrderCancelled counts a cancelled order.
func (c *CheckoutMetrics) IncOrderCancelled() {
	if c == nil || c.ordersCancelled == nil {
		return
	}
	c.ordersCancelled.Inc()
}

// IncInsufficientStock counts an order attempt rejected for stock.
func (c *CheckoutMetrics) IncInsufficientStock() {
	if c == nil || c.insufficientStock == nil {
		return
	}
	c.insufficientStock.Inc()
}

// ObserveOrderValue records the grand total of a placed order.
func (c *CheckoutMetrics) ObserveOrderValue(total float64) {
	if c == nil || c.orderValue == nil {
		return
	}
	c.orderValue.Observe(total)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
