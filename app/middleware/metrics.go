package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Influencers assigned through the bulk executor, partitioned by strategy
	influencersAssignedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_influencers_assigned_total",
			Help: "Total number of influencers assigned to agents",
		},
		[]string{"strategy"},
	)

	// Influencers the executor could not place
	influencersUnassignedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_influencers_unassigned_total",
			Help: "Total number of influencers left unassigned by the executor",
		},
		[]string{"strategy"},
	)

	// Reassignments, partitioned by outcome
	reassignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_reassignments_total",
			Help: "Total number of influencer reassignment attempts",
		},
		[]string{"outcome"},
	)

	// Contact attempts recorded, partitioned by schedule reason
	contactAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_contact_attempts_total",
			Help: "Total number of contact attempts recorded",
		},
		[]string{"reason"},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		// Call the next handler in the chain
		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// ObserveBulkAssignment records the outcome of a bulk assignment execution
func ObserveBulkAssignment(strategy string, assigned, unassigned int) {
	influencersAssignedTotal.WithLabelValues(strategy).Add(float64(assigned))
	influencersUnassignedTotal.WithLabelValues(strategy).Add(float64(unassigned))
}

// ObserveReassignment records a reassignment attempt outcome ("success" or "failed")
func ObserveReassignment(outcome string) {
	reassignmentsTotal.WithLabelValues(outcome).Inc()
}

// ObserveContactAttempt records a contact attempt by its schedule reason
func ObserveContactAttempt(reason string) {
	contactAttemptsTotal.WithLabelValues(reason).Inc()
}
