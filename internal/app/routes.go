package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/cache"
	"github.com/simp-lee/bilemo/internal/middleware"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// RouteDeps is what RegisterRoutes mounts. Cache may be nil when listing
// caching is disabled.
type RouteDeps struct {
	Modules []Module
	DB      *gorm.DB
	Cache   cache.Store
	Tokens  middleware.TokenParser
}

// RegisterRoutes mounts /health, /metrics and every module under /api/v1.
// Each module gets the public group and a child group behind bearer auth.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	switch {
	case r == nil:
		return errors.New("router is nil")
	case deps == nil:
		return errors.New("route dependencies are nil")
	case len(deps.Modules) == 0:
		return errors.New("at least one module is required")
	case deps.Tokens == nil:
		return errors.New("token parser is required")
	}
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
	}

	r.GET("/health", healthHandler(deps.DB, deps.Cache))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	authed := api.Group("", middleware.Auth(deps.Tokens))
	for _, m := range deps.Modules {
		m.RegisterRoutes(api, authed)
	}
	r.NoRoute(noRouteHandler())
	return nil
}

// healthHandler pings the database and the listing cache. Only the database
// decides the status code; listings still work from the database when the
// cache is down.
func healthHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		code, overall := http.StatusOK, "ok"
		database, listingCache := "ok", "disabled"

		if err := pingDB(ctx, db); err != nil {
			code, overall, database = http.StatusServiceUnavailable, "degraded", "error"
		}
		if store != nil {
			listingCache = "ok"
			if err := store.Ping(ctx); err != nil {
				overall, listingCache = "degraded", "error"
			}
		}

		c.JSON(code, gin.H{
			"status":     overall,
			"components": gin.H{"database": database, "cache": listingCache},
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// noRouteHandler answers unknown paths with the JSON envelope used by the API.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
	}
}
