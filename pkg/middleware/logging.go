package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/metrics"
)

// RequestLogger logs one structured line per request and records request metrics.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		lvl, zl := levelFor(status)
		if !logger.Enabled(lvl) {
			return
		}
		l := logger.With(map[string]interface{}{"component": "http"})
		l.WithLevel(zl).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("caller", CallerID(c)).
			Msg("request")
	}
}

func levelFor(status int) (logger.Level, zerolog.Level) {
	switch {
	case status >= 500:
		return logger.LevelError, zerolog.ErrorLevel
	case status >= 400:
		return logger.LevelWarn, zerolog.WarnLevel
	default:
		return logger.LevelInfo, zerolog.InfoLevel
	}
}
