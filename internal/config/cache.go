package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/simp-lee/bilemo/internal/cache"
)

// SetupCache builds the listing result cache described by cfg. It returns a
// nil Store when caching is disabled, in which case listings always read
// through to the database.
func SetupCache(ctx context.Context, cfg *CacheConfig, logger *slog.Logger) (cache.Store, error) {
	if cfg == nil {
		return nil, errors.New("cache config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	if !cfg.Enabled {
		logger.Info("listing cache disabled")
		return nil, nil
	}

	ttl := ParseDurationOr(cfg.TTL, time.Hour)

	switch cfg.Driver {
	case "", "memory":
		logger.Info("listing cache ready",
			slog.String("driver", "memory"),
			slog.Int("max_size", cfg.MaxSize),
			slog.Duration("ttl", ttl),
		)
		return cache.NewMemory(cfg.MaxSize, ttl), nil
	case "redis":
		store, err := cache.ConnectRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
			Timeout:  ParseDurationOr(cfg.Redis.Timeout, 0),
		}, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
		}
		logger.Info("listing cache ready",
			slog.String("driver", "redis"),
			slog.String("addr", cfg.Redis.Addr),
			slog.Duration("ttl", ttl),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}
