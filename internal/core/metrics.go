// AngelaMos | 2026
// metrics.go

package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boi_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boi_orders_created_total",
		Help: "Orders committed by the order engine",
	})

	OrderRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boi_order_rejections_total",
			Help: "Order requests rejected before commit",
		},
		[]string{"reason"},
	)

	MembershipSubscriptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boi_membership_subscriptions_total",
			Help: "Membership subscription attempts by plan and outcome",
		},
		[]string{"plan", "outcome"},
	)

	FeedbackSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boi_feedback_submitted_total",
			Help: "Feedback rows submitted",
		},
		[]string{"kind"},
	)
)

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
