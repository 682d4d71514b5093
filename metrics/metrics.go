// Package metrics exposes Prometheus counters for the HTTP layer and the
// guestbook/resume business events.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	guestSubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guest_submissions_total",
			Help: "Total number of guestbook submissions",
		},
	)

	resumeUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resume_uploads_total",
			Help: "Total number of resume versions uploaded",
		},
	)

	resumeDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resume_downloads_total",
			Help: "Total number of confirmed resume downloads",
		},
	)
)

// Middleware records request counts and latency per route. The route
// template (not the raw path) is used so ids do not blow up cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).
			Observe(time.Since(start).Seconds())
	}
}

// RecordGuestSubmission records a new guestbook entry.
func RecordGuestSubmission() {
	guestSubmissionsTotal.Inc()
}

// RecordResumeUpload records a new resume version.
func RecordResumeUpload() {
	resumeUploadsTotal.Inc()
}

// RecordResumeDownload records a confirmed resume download.
func RecordResumeDownload() {
	resumeDownloadsTotal.Inc()
}
