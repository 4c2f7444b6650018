package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists what browsers on other origins may do with the API.
type CORSConfig struct {
	// AllowOrigins holds exact origins; a single "*" admits any origin.
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	// ExposeHeaders are the response headers scripts may read, such as the
	// Location of a created resource.
	ExposeHeaders    []string
	AllowCredentials bool
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge string
}

// DefaultCORSConfig admits any origin for bearer-token clients.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Location", requestIDHeader},
		MaxAge:        "86400",
	}
}

// CORSWithConfig answers preflight requests with 204 and decorates other
// cross-origin responses. Requests from origins outside cfg are served
// without CORS headers, which leaves the browser to block them.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	wildcard := len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*"
	headers := map[string]string{
		"Access-Control-Allow-Methods":  strings.Join(cfg.AllowMethods, ", "),
		"Access-Control-Allow-Headers":  strings.Join(cfg.AllowHeaders, ", "),
		"Access-Control-Max-Age":        cfg.MaxAge,
		"Access-Control-Expose-Headers": strings.Join(cfg.ExposeHeaders, ", "),
	}
	if cfg.AllowCredentials {
		headers["Access-Control-Allow-Credentials"] = "true"
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		c.Writer.Header().Add("Vary", "Origin")

		switch {
		case wildcard && !cfg.AllowCredentials:
			c.Header("Access-Control-Allow-Origin", "*")
		case wildcard || originAllowed(cfg.AllowOrigins, origin):
			// credentialed responses must name the origin
			c.Header("Access-Control-Allow-Origin", origin)
		default:
			c.Next()
			return
		}
		for k, v := range headers {
			if v != "" {
				c.Header(k, v)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}
