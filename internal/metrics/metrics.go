// Package metrics provides Prometheus metrics collection for the sash quote service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// QuoteCalculationsTotal counts quote computations by status.
	QuoteCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_calculations_total",
			Help: "Total number of quote calculations",
		},
		[]string{"status"},
	)

	QuoteCalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_calculation_duration_seconds",
			Help:    "Quote calculation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	// PriceTableLoadsTotal counts resolved price tables by provenance.
	PriceTableLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_table_loads_total",
			Help: "Total number of price table loads by source",
		},
		[]string{"source"},
	)

	// PriceSheetRequestsTotal counts calls to the remote price sheet.
	PriceSheetRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_sheet_requests_total",
			Help: "Total number of remote price sheet requests",
		},
		[]string{"operation", "result"},
	)

	PriceSheetRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "price_sheet_request_duration_seconds",
			Help:    "Remote price sheet request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// PriceTableVersion is the version of the last resolved price table.
	PriceTableVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "price_table_version",
			Help: "Version of the active price table",
		},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "operation", "result"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
		[]string{"cache"},
	)

	// AuditLogEntriesTotal tracks entries handed to the async audit logger.
	AuditLogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_log_entries_total",
			Help: "Total number of audit log entries by result",
		},
		[]string{"result"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordQuoteCalculation records metrics for a quote computation.
func RecordQuoteCalculation(duration time.Duration, status string) {
	QuoteCalculationDuration.Observe(duration.Seconds())
	QuoteCalculationsTotal.WithLabelValues(status).Inc()
}

// RecordPriceTableLoad records the provenance and version of a resolved table.
func RecordPriceTableLoad(source string, version int) {
	PriceTableLoadsTotal.WithLabelValues(source).Inc()
	PriceTableVersion.Set(float64(version))
}

// RecordPriceSheetRequest records one remote sheet call.
func RecordPriceSheetRequest(operation, result string, duration time.Duration) {
	PriceSheetRequestsTotal.WithLabelValues(operation, result).Inc()
	PriceSheetRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(cache, operation, result string) {
	CacheOperationsTotal.WithLabelValues(cache, operation, result).Inc()
}

// UpdateCacheSize sets the current size of the named cache.
func UpdateCacheSize(cache string, size int) {
	CacheSize.WithLabelValues(cache).Set(float64(size))
}

// RecordAuditLogEntry counts a log entry by outcome: enqueued, overflow,
// dropped, written or failed.
func RecordAuditLogEntry(result string) {
	AuditLogEntriesTotal.WithLabelValues(result).Inc()
}
