// Package metrics holds the Prometheus collectors for the inventory API.
//
// The router mounts Middleware on every request and Handler on GET /metrics.
// Services report catalog outcomes through RecordCatalogOperation and the
// database layer reports query latency through ObserveDBQuery.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// CatalogOperations counts catalog service calls by operation and
	// outcome ("ok", "validation", "duplicate", "not_found", "forbidden",
	// "error").
	CatalogOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "operations_total",
			Help:      "Catalog operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	CatalogDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "operation_duration_seconds",
			Help:      "Duration of catalog operations in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation"}, // create | query | update | delete | row | raw
	)
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		CatalogOperations,
		CatalogDuration,
		DBQueryDuration,
	)
}

// Middleware records duration, count and in-flight requests. Routes are
// labelled by their registered pattern to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}

func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
	return gin.WrapH(h)
}

// RecordCatalogOperation is meant to be deferred:
//
//	defer func(start time.Time) { metrics.RecordCatalogOperation("create", outcome(err), start) }(time.Now())
func RecordCatalogOperation(operation, outcome string, start time.Time) {
	CatalogOperations.WithLabelValues(operation, outcome).Inc()
	CatalogDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func ObserveDBQuery(operation string, elapsed time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
