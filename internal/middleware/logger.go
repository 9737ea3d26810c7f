package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/metrics"
)

// Logger returns a middleware that logs each HTTP request and records its
// latency in the request duration histogram.
func Logger(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).Observe(latency.Seconds())

		if raw != "" {
			path = path + "?" + raw
		}

		event := log.Zerolog().Info()
		if statusCode >= 500 {
			event = log.Zerolog().Error()
		} else if statusCode >= 400 {
			event = log.Zerolog().Warn()
		}
		event.
			Str("request_id", requestID).
			Str("client_ip", c.ClientIP()).
			Str("method", method).
			Str("path", path).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request processed")
	}
}
