package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/bilemo/internal/pkg"
)

// Recovery turns a handler panic into a logged error and a 500 envelope
// with the message "internal server error". A response that was already
// committed is left as is; the panic is still logged.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if v := recover(); v != nil {
				recovered(c, logger, v)
			}
		}()
		c.Next()
	}
}

func recovered(c *gin.Context, logger *slog.Logger, v any) {
	logger.ErrorContext(c.Request.Context(), "panic recovered",
		slog.Any("panic", v),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("route", c.FullPath()),
		slog.String("stack", string(debug.Stack())),
	)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	})
}
