package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todoapi/internal/logging"
)

// Logger configuration
type LoggerConfig struct {
	SkipPaths []string

	// OnlySuccess limits the access log to responses below 400. Failures are
	// logged by the error handler together with their error code.
	OnlySuccess bool
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		SkipPaths:   []string{"/health", "/metrics", "/ping"},
		OnlySuccess: true,
	}
}

func Logger(logger logging.Logger) gin.HandlerFunc {
	return LoggerWithConfig(logger, DefaultLoggerConfig())
}

func LoggerWithConfig(logger logging.Logger, config LoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		if config.OnlySuccess && status >= http.StatusBadRequest {
			return
		}

		host, port, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.ClientIP()
		}

		args := []any{
			"client_ip", host,
			"client_port", port,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"size", c.Writer.Size(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			args = append(args, "query", truncateString(q, 100))
		}

		logger.Info(c.Request.Context(), "Request completed", args...)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
