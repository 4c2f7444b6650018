package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/pkg"
)

const principalContextKey = "principal"

// TokenParser verifies a bearer token and returns its principal.
type TokenParser interface {
	Parse(raw string) (*domain.Principal, error)
}

// Auth returns a gin middleware that requires a valid bearer token.
//
// On success the principal is stored in gin.Context (see GetPrincipal) and
// its user id is attached to the Go context for structured logging. Missing
// or invalid tokens are answered with 401 and the chain is aborted.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
			unauthorized(c, "invalid authorization header")
			return
		}

		p, err := parser.Parse(strings.TrimSpace(raw))
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		c.Set(principalContextKey, p)

		ctx := logger.WithContextAttrs(c.Request.Context(), slog.Uint64("user_id", uint64(p.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, msg, nil))
	c.Abort()
}

// GetPrincipal returns the authenticated principal, or nil when the request
// did not pass through Auth.
func GetPrincipal(c *gin.Context) *domain.Principal {
	if v, exists := c.Get(principalContextKey); exists {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}
	return nil
}
