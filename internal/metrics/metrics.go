package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propcoin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propcoin_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DebitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propcoin_ledger_debits_total",
			Help: "Total number of paid-action debits",
		},
		[]string{"action", "status"},
	)

	CreditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propcoin_ledger_credits_total",
			Help: "Total number of recharge credits applied",
		},
	)

	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propcoin_webhook_events_total",
			Help: "Total number of payment webhook deliveries",
		},
		[]string{"event", "result"},
	)

	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propcoin_orders_created_total",
			Help: "Total number of recharge orders created",
		},
	)

	OrdersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propcoin_orders_expired_total",
			Help: "Total number of orders failed by the expiry sweeper",
		},
	)

	PartialSettlementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propcoin_partial_settlements_total",
			Help: "Orders marked success whose ledger credit did not apply",
		},
	)

	ReceiptsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propcoin_receipts_sent_total",
			Help: "Total number of receipt emails sent",
		},
		[]string{"type", "status"},
	)

	ReceiptQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "propcoin_receipt_queue_length",
			Help: "Current length of the receipt email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordDebit(action, status string) {
	DebitsTotal.WithLabelValues(action, status).Inc()
}

func RecordCredit() {
	CreditsTotal.Inc()
}

func RecordWebhookEvent(event, result string) {
	WebhookEventsTotal.WithLabelValues(event, result).Inc()
}

func RecordOrderCreated() {
	OrdersCreatedTotal.Inc()
}

func RecordOrdersExpired(n int64) {
	OrdersExpiredTotal.Add(float64(n))
}

func RecordPartialSettlement() {
	PartialSettlementsTotal.Inc()
}

func RecordReceipt(receiptType, status string) {
	ReceiptsSentTotal.WithLabelValues(receiptType, status).Inc()
}
