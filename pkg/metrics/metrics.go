package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GraphQLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "graphql_requests_total", Help: "GraphQL requests by operation and outcome (ok, server_error, transport_error)."},
		[]string{"operation", "outcome"},
	)
	GraphQLDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "catalog", Name: "graphql_request_duration_seconds", Help: "GraphQL round-trip latency by operation.", Buckets: prometheus.DefBuckets},
		[]string{"operation"},
	)
	UIEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "ui_events_total", Help: "Dispatched UI events by event name and outcome."},
		[]string{"event", "outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(GraphQLRequests)
	reg.MustRegister(GraphQLDuration)
	reg.MustRegister(UIEvents)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
