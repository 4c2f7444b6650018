package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/cache"
	"github.com/simp-lee/bilemo/internal/config"
	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/listing"
	"github.com/simp-lee/bilemo/internal/middleware"
	"github.com/simp-lee/bilemo/internal/module/auth"
	"github.com/simp-lee/bilemo/internal/module/company"
	"github.com/simp-lee/bilemo/internal/module/product"
	"github.com/simp-lee/bilemo/internal/module/user"
	"github.com/simp-lee/bilemo/internal/pkg"
	"github.com/simp-lee/bilemo/internal/token"
)

const defaultRequestTimeout = 30 * time.Second

// App is the assembled API: the gin engine plus the resources Run releases
// on shutdown.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	cache  cache.Store
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, timeout time.Duration) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      2 * timeout,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New wires an App from cfg: logger, database, listing cache, the four
// modules and the middleware chain. Whatever was opened before a failing
// step is closed again, newest first.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	var opened []func()
	fail := func(err error) (*App, error) {
		for i := len(opened) - 1; i >= 0; i-- {
			opened[i]()
		}
		return nil, err
	}

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	opened = append(opened, func() {
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	})
	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("debug mode is listening on every interface", slog.String("host", cfg.Server.Host))
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return fail(fmt.Errorf("setup database: %w", err))
	}
	opened = append(opened, func() { closeDB(db, log.Logger) })

	// schema changes outside debug go through the migrate command
	if cfg.Server.Mode == gin.DebugMode {
		if err := Migrate(db); err != nil {
			return fail(fmt.Errorf("auto migrate: %w", err))
		}
		log.Info("auto migration completed")
	}

	store, err := config.SetupCache(context.Background(), &cfg.Cache, log.Logger)
	if err != nil {
		return fail(fmt.Errorf("setup cache: %w", err))
	}
	if store != nil {
		opened = append(opened, func() { _ = store.Close() })
	}

	if err := pkg.RegisterValidators(); err != nil {
		return fail(fmt.Errorf("register validators: %w", err))
	}

	engine := newEngine(cfg.Server, log.Logger)
	routes := pkg.NewRouteTable(cfg.Server.PublicURL)
	tokens := token.NewManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.Issuer,
		config.ParseDurationOr(cfg.Auth.TokenExpiry, time.Hour),
	)

	if err := RegisterRoutes(engine, &RouteDeps{
		Modules: buildModules(db, store, routes, tokens, log.Logger),
		DB:      db,
		Cache:   store,
		Tokens:  tokens,
	}); err != nil {
		return fail(fmt.Errorf("register routes: %w", err))
	}

	return &App{
		engine: engine,
		db:     db,
		cache:  store,
		logger: log,
		cfg:    cfg,
	}, nil
}

// newEngine builds a bare gin engine with the API middleware chain. Recovery
// runs first so panics in later middleware still get a JSON envelope.
func newEngine(srv config.ServerConfig, log *slog.Logger) *gin.Engine {
	gin.SetMode(srv.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: srv.TrustRequestID}),
		middleware.Logger(log),
		middleware.CORSWithConfig(resolveCORSConfig(srv.Mode, srv.CORS)),
		middleware.Metrics(),
	)
	return engine
}

// Migrate creates or updates the tables of every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Company{}, &domain.User{}, &domain.Product{})
}

func buildModules(db *gorm.DB, store cache.Store, routes *pkg.RouteTable, tokens *token.Manager, log *slog.Logger) []Module {
	companyRepo := company.NewCompanyRepository(db)
	userRepo := user.NewUserRepository(db)
	productRepo := product.NewProductRepository(db)

	companyLister := listing.NewLister[domain.Company](listing.NewGormStore[domain.Company](db), listing.Config{
		Kind:     domain.KindCompany,
		RouteID:  company.RouteList,
		Resolver: routes,
		Cache:    store,
		Logger:   log,
	})
	userLister := listing.NewLister[domain.User](listing.NewGormStore[domain.User](db), listing.Config{
		Kind:        domain.KindUser,
		RouteID:     user.RouteList,
		TenantParam: "company_id",
		Resolver:    routes,
		Cache:       store,
		Logger:      log,
	})
	productLister := listing.NewLister[domain.Product](listing.NewGormStore[domain.Product](db), listing.Config{
		Kind:     domain.KindProduct,
		RouteID:  product.RouteList,
		Resolver: routes,
		Cache:    store,
		Logger:   log,
	})

	return []Module{
		auth.NewModule(auth.NewHandler(auth.NewService(tokens, userRepo))),
		company.NewModule(company.NewCompanyHandler(company.NewCompanyService(companyRepo, companyLister), routes)),
		user.NewModule(user.NewUserHandler(user.NewUserService(userRepo, companyRepo, userLister), routes)),
		product.NewModule(product.NewProductHandler(product.NewProductService(productRepo, productLister), routes)),
	}
}

// resolveCORSConfig overlays the configured CORS lists on the defaults.
// Release builds without an origin allowlist serve no cross-origin callers.
func resolveCORSConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()
	for _, o := range []struct {
		dst *[]string
		src []string
	}{
		{&out.AllowMethods, cfg.AllowMethods},
		{&out.AllowHeaders, cfg.AllowHeaders},
		{&out.ExposeHeaders, cfg.ExposeHeaders},
	} {
		if len(o.src) > 0 {
			*o.dst = o.src
		}
	}
	if d, err := time.ParseDuration(cfg.MaxAge); err == nil {
		out.MaxAge = strconv.Itoa(int(d.Seconds()))
	}
	out.AllowCredentials = cfg.AllowCredentials

	if len(cfg.AllowOrigins) > 0 {
		out.AllowOrigins = cfg.AllowOrigins
	} else if mode == gin.ReleaseMode {
		out.AllowOrigins = []string{}
	}
	return out
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger.Logger
	}
	return slog.Default()
}

// Run serves HTTP until SIGINT or SIGTERM, drains in-flight requests for up
// to five seconds and then releases the cache, database and logger. A
// listener failure skips the drain but still releases everything.
func (a *App) Run() error {
	switch {
	case a == nil:
		return errors.New("app is nil")
	case a.cfg == nil:
		return errors.New("app config is nil")
	case a.engine == nil:
		return errors.New("app engine is nil")
	}

	log := a.log()
	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	srv := newHTTPServer(addr, a.engine, config.ParseDurationOr(a.cfg.Server.Timeout, defaultRequestTimeout))

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr), slog.String("public_url", a.cfg.Server.PublicURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		drain(srv, log)
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	a.release(log)
	return runErr
}

func drain(srv httpServer, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", slog.Any("error", err))
	}
}

func (a *App) release(log *slog.Logger) {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Error("cache close error", slog.Any("error", err))
		}
	}
	if a.db != nil {
		closeDB(a.db, log)
	}
	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}
}
