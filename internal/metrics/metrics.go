// Package metrics holds the Prometheus collectors of the escrow service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "escrow"

// Metrics groups every collector the service exports on /metrics.
type Metrics struct {
	EventsPublished  *prometheus.CounterVec
	PublishFailures  *prometheus.CounterVec
	OrderTransitions *prometheus.CounterVec
	LedgerRecorded   *prometheus.CounterVec

	AutoConfirmRuns     *prometheus.CounterVec
	AutoConfirmedOrders prometheus.Counter
	AutoConfirmSkipped  prometheus.Counter
	AutoConfirmFailed   prometheus.Counter
	AutoConfirmDuration prometheus.Histogram

	PaymentsConsumed *prometheus.CounterVec

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors with reg. Use prometheus.DefaultRegisterer in
// the service and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker after commit",
		}, []string{"event"}),
		PublishFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Publish calls that returned an error",
		}, []string{"event"}),
		OrderTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Committed order status changes by target status",
		}, []string{"to"}),
		LedgerRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_transactions_total",
			Help:      "Committed ledger transactions by type",
		}, []string{"type"}),

		AutoConfirmRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_confirm_runs_total",
			Help:      "Auto-confirmation timer runs by outcome",
		}, []string{"outcome"}),
		AutoConfirmedOrders: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_confirmed_orders_total",
			Help:      "Orders completed by the auto-confirmation timer",
		}),
		AutoConfirmSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_confirm_skipped_total",
			Help:      "Due orders that changed before the timer could complete them",
		}),
		AutoConfirmFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_confirm_failed_total",
			Help:      "Due orders the timer failed to complete",
		}),
		AutoConfirmDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "auto_confirm_run_duration_seconds",
			Help:      "Duration of one auto-confirmation run",
			Buckets:   prometheus.DefBuckets,
		}),

		PaymentsConsumed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_messages_total",
			Help:      "Payment confirmation messages consumed by outcome",
		}, []string{"outcome"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
