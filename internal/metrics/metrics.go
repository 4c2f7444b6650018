// Package metrics defines the Prometheus metrics exported on /metrics.
// Metrics are registered with the default registry at package init through
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bilemo"

// ListRequestsTotal counts listing requests that passed authorization.
// Label:
//   - kind: "company", "user" or "product"
var ListRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_requests_total",
		Help:      "Total number of authorized listing requests, by resource kind.",
	},
	[]string{"kind"},
)

// CacheLookupsTotal counts listing cache lookups.
// Labels:
//   - kind: resource kind of the listing
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of listing cache lookups, labelled by result.",
	},
	[]string{"kind", "result"},
)

// AuthzDenialsTotal counts requests refused by the access guard.
// Labels:
//   - kind: resource kind of the target
//   - reason: "unauthenticated", "admin_only" or "cross_tenant"
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of access guard denials.",
	},
	[]string{"kind", "reason"},
)

// HTTPRequestDuration measures request handling time.
// Labels:
//   - method: HTTP method
//   - route: matched route template, or "unmatched"
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
