// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// newsletter deliveries.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	NewsletterBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_newsletter_batches_total",
			Help: "Newsletter batches dispatched",
		},
	)

	NewsletterDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_newsletter_deliveries_total",
			Help: "Per-recipient newsletter deliveries by outcome (sent, failed)",
		},
		[]string{"outcome"},
	)

	NewsletterBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_newsletter_batch_duration_seconds",
			Help:    "Wall-clock time to dispatch one newsletter batch",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	UploadsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_uploads_total",
			Help: "Uploads relayed to the image host by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordDelivery counts one newsletter recipient outcome.
func RecordDelivery(success bool) {
	if success {
		NewsletterDeliveries.WithLabelValues("sent").Inc()
		return
	}
	NewsletterDeliveries.WithLabelValues("failed").Inc()
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
