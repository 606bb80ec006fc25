package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mvps-vip/showcase/internal/logging"
)

const (
	requestIDHeader = "X-Request-ID"
	sourceHeader    = "X-Catalog-Source"
	requestIDKey    = "request_id"
	adminKey        = "admin_email"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// requestID reuses an incoming X-Request-ID or mints one, echoes it back and
// attaches a request-scoped logger to the request context.
func (s *Server) requestID(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(requestIDHeader))
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)
	ctx := logging.With(logging.WithLogger(c.Request.Context(), s.log), "request_id", id)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	if raw := c.Request.URL.RawQuery; raw != "" {
		path = path + "?" + raw
	}

	c.Next()

	status := c.Writer.Status()
	l := logging.FromContext(c.Request.Context())
	kv := []any{
		"method", c.Request.Method,
		"path", path,
		"status", status,
		"ip", c.ClientIP(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if status >= 500 {
		l.Warn("request", kv...)
		return
	}
	l.Info("request", kv...)
}

func prometheusMetrics(c *gin.Context) {
	if c.Request.URL.Path == "/metrics" {
		c.Next()
		return
	}

	httpRequestsInFlight.Inc()
	defer httpRequestsInFlight.Dec()
	start := time.Now()

	c.Next()

	status := strconv.Itoa(c.Writer.Status())
	path := c.FullPath()
	if path == "" {
		path = "unknown"
	}
	httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
}

// requireAdmin rejects requests without a valid bearer session.
func (s *Server) requireAdmin(c *gin.Context) {
	if s.auth == nil {
		abortError(c, errAdminDisabled)
		return
	}
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		abortError(c, errMissingToken)
		return
	}
	claims, err := s.auth.Verify(token)
	if err != nil {
		abortError(c, err)
		return
	}
	c.Set(adminKey, claims.Email)
	c.Next()
}
