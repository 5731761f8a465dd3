package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accessdesk_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accessdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"})

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accessdesk_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"route"})

	PostViewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "accessdesk_post_views_total",
			Help: "Post detail reads that incremented a view count.",
		})

	UploadedBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "accessdesk_uploaded_bytes_total",
			Help: "Bytes written to the upload directory.",
		})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RateLimitedTotal,
		PostViewsTotal,
		UploadedBytesTotal,
	)
}

// RequestMetrics records every routed request after it completes. Static
// assets and the metrics endpoint itself are skipped.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/metrics" || strings.HasPrefix(path, "/uploads/") || strings.HasPrefix(path, "/static/") {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
