package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultRequestIDHeader carries the request id in both directions.
	DefaultRequestIDHeader = "X-Request-ID"
	// ContextRequestID is the gin context key holding the request id.
	ContextRequestID = "request_id"
)

// RequestLoggerConfig configures RequestLogger.
type RequestLoggerConfig struct {
	// SkipPaths are request paths that are never logged (health probes etc).
	SkipPaths []string
	// RequestIDHeader overrides DefaultRequestIDHeader.
	RequestIDHeader string
}

// RequestLogger returns a gin middleware logging one line per request.
// Incoming request ids are reused, otherwise a UUID is generated.
func RequestLogger(logger *zap.Logger, cfg RequestLoggerConfig) gin.HandlerFunc {
	header := cfg.RequestIDHeader
	if header == "" {
		header = DefaultRequestIDHeader
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetHeader(header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(header, requestID)

		c.Next()

		if _, ok := skip[path]; ok {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("Request", fields...)
		case status >= 400:
			logger.Warn("Request", fields...)
		default:
			logger.Info("Request", fields...)
		}
	}
}

// RequestID returns the id RequestLogger assigned to the request, if any.
func RequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
