package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/restaurant-assistant-api/metrics"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the per-request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new one, and echoes it in the response
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or ""
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// Logger logs one line per request and records it in the HTTP metrics
func Logger(log *logrus.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, status, latency)

		entry := log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    latency.String(),
			"client_ip":  c.ClientIP(),
			"request_id": GetRequestID(c),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
