package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trainhub"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Entitlement metrics
	accessChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entitlement",
			Name:      "checks_total",
			Help:      "Total number of access checks by outcome",
		},
		[]string{"outcome", "via"},
	)

	accessCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "entitlement",
			Name:      "check_duration_seconds",
			Help:      "Duration of access checks in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5},
		},
	)

	// Subscription metrics
	subscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "created_total",
			Help:      "Total number of subscriptions created by origin",
		},
		[]string{"origin"},
	)

	subscriptionConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "conflicts_total",
			Help:      "Subscription creations rejected because the account already had an active one",
		},
	)

	subscriptionsCanceledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "canceled_total",
			Help:      "Total number of subscriptions canceled",
		},
	)

	// Sweeper metrics
	sweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "runs_total",
			Help:      "Total number of expiration sweeps by status",
		},
		[]string{"status"},
	)

	sweepRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "rows_total",
			Help:      "Subscriptions handled by the sweeper by outcome",
		},
		[]string{"outcome"},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "run_duration_seconds",
			Help:      "Duration of expiration sweeps in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController and outer middleware
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Route pattern keeps label cardinality bounded
		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAccessCheck records the outcome of an access check
func RecordAccessCheck(granted bool, via string, duration time.Duration) {
	outcome := "denied"
	if granted {
		outcome = "granted"
	}
	if via == "" {
		via = "none"
	}
	accessChecksTotal.WithLabelValues(outcome, via).Inc()
	accessCheckDuration.Observe(duration.Seconds())
}

// RecordSubscriptionCreated records a new subscription
func RecordSubscriptionCreated(origin string) {
	subscriptionsCreatedTotal.WithLabelValues(origin).Inc()
}

// RecordSubscriptionConflict records a rejected duplicate ACTIVE subscription
func RecordSubscriptionConflict() {
	subscriptionConflictsTotal.Inc()
}

// RecordSubscriptionCanceled records a cancellation
func RecordSubscriptionCanceled() {
	subscriptionsCanceledTotal.Inc()
}

// RecordSweep records one sweeper run
func RecordSweep(status string, expired, skipped, failed int, duration time.Duration) {
	sweepRunsTotal.WithLabelValues(status).Inc()
	sweepRowsTotal.WithLabelValues("expired").Add(float64(expired))
	sweepRowsTotal.WithLabelValues("skipped").Add(float64(skipped))
	sweepRowsTotal.WithLabelValues("failed").Add(float64(failed))
	sweepDuration.Observe(duration.Seconds())
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
