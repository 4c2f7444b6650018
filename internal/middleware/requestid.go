package middleware

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// RequestIDConfig decides whether an incoming X-Request-ID is reused.
// Enable TrustUpstream only behind a proxy that sets or scrubs the header.
type RequestIDConfig struct {
	TrustUpstream bool
}

// RequestIDWithConfig tags each request with an id, answers it in the
// X-Request-ID header and adds it to the request context, so every log line
// written while serving the request carries request_id.
func RequestIDWithConfig(cfg RequestIDConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestID(c, cfg.TrustUpstream)
		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(
			logger.WithContextAttrs(c.Request.Context(), slog.String("request_id", id)),
		)
		c.Next()
	}
}

// requestID reuses a well-formed upstream id when trusted and mints a UUID
// otherwise.
func requestID(c *gin.Context, trustUpstream bool) string {
	if trustUpstream {
		if id := c.GetHeader(requestIDHeader); requestIDPattern.MatchString(id) {
			return id
		}
	}
	return uuid.NewString()
}

// GetRequestID returns the id assigned by RequestIDWithConfig, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
