package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/app"
	"github.com/simp-lee/bilemo/internal/config"
)

type globals struct {
	ConfigPath string
	Version    string
}

type serveCmd struct{}

func (serveCmd) Run(g *globals) error {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	slog.Info("starting bilemo", slog.String("version", g.Version))
	return a.Run()
}

type migrateCmd struct{}

func (migrateCmd) Run(ctx context.Context, g *globals) error {
	return withDatabase(g, func(log *logger.Logger, db *gorm.DB) error {
		if err := app.Migrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migration completed")
		return nil
	})
}

type seedCmd struct {
	CompanyName  string `help:"Name of the administrator company." default:"BileMo"`
	CompanyEmail string `help:"Contact email of the administrator company." default:"contact@bilemo.com"`
	Username     string `help:"Administrator username." default:"admin"`
	Email        string `help:"Administrator email." default:"admin@bilemo.com"`
	LastName     string `help:"Administrator last name." default:"Admin"`
	FirstName    string `help:"Administrator first name." default:"BileMo"`
	Password     string `help:"Administrator password." env:"BILEMO_ADMIN_PASSWORD" required:""`
}

func (s seedCmd) Run(ctx context.Context, g *globals) error {
	return withDatabase(g, func(log *logger.Logger, db *gorm.DB) error {
		admin, created, err := app.Seed(ctx, db, app.AdminSeed{
			CompanyName:  s.CompanyName,
			CompanyEmail: s.CompanyEmail,
			Username:     s.Username,
			Email:        s.Email,
			LastName:     s.LastName,
			FirstName:    s.FirstName,
			Password:     s.Password,
		})
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if created {
			log.Info("administrator created", slog.String("username", admin.Username), slog.Uint64("company_id", uint64(admin.CompanyID)))
		} else {
			log.Info("administrator already exists", slog.String("username", admin.Username))
		}
		return nil
	})
}

// withDatabase loads the configuration, opens the logger and database for a
// one-shot command and releases both when fn returns.
func withDatabase(g *globals, fn func(log *logger.Logger, db *gorm.DB) error) error {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return err
	}

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer log.Close()

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	return fn(log, db)
}
