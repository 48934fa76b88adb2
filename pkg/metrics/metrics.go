package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Checkouts by outcome: success, failed, conflict
	CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "easyshop_checkout_total",
		Help: "Total number of checkout attempts by result",
	}, []string{"result"})

	CheckoutDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "easyshop_checkout_duration_seconds",
		Help:    "Latency of the checkout operation",
		Buckets: prometheus.DefBuckets,
	})

	OrderLineItems = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "easyshop_order_line_items",
		Help:    "Number of line items written per order",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	CartMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "easyshop_cart_mutations_total",
		Help: "Cart writes by operation",
	}, []string{"operation"})
)

func Init() {
	prometheus.MustRegister(
		CheckoutTotal,
		CheckoutDuration,
		OrderLineItems,
		CartMutations,
	)
}
