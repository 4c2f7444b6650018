package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config mirrors configs/config.yaml.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Cache    CacheConfig    `koanf:"cache"`
}

// ServerConfig describes the listener and the public face of the API.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	Mode string `koanf:"mode"`
	// PublicURL is the absolute base used for Location headers and page
	// links. Defaults to http://host:port.
	PublicURL      string     `koanf:"public_url"`
	Timeout        string     `koanf:"timeout"`
	TrustRequestID bool       `koanf:"trust_request_id"`
	CORS           CORSConfig `koanf:"cors"`
}

// CORSConfig lists the cross-origin rules; empty lists keep the middleware defaults.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	ExposeHeaders    []string `koanf:"expose_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// DatabaseConfig selects the store. Only the block matching Driver is read.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig tunes database/sql. Zero values use the pool defaults.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig drives SetupLogger. The rotation fields only apply with FilePath.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret   string `koanf:"jwt_secret"`
	TokenExpiry string `koanf:"token_expiry"`
	Issuer      string `koanf:"issuer"`
}

// CacheConfig holds listing result cache settings.
type CacheConfig struct {
	Enabled bool        `koanf:"enabled"`
	Driver  string      `koanf:"driver"`
	TTL     string      `koanf:"ttl"`
	MaxSize int         `koanf:"max_size"`
	Redis   RedisConfig `koanf:"redis"`
}

// RedisConfig holds the connection settings for the redis cache driver.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	DB       int    `koanf:"db"`
	Password string `koanf:"password"`
	Timeout  string `koanf:"timeout"`
}

const (
	defaultTokenExpiry = "1h"
	defaultIssuer      = "bilemo"
	defaultCacheTTL    = "1h"
	defaultCacheDriver = "memory"
)

// envPrefix marks the variables Load overlays on the file. A double
// underscore separates levels, so APP__CACHE__REDIS__ADDR sets
// cache.redis.addr and APP__DATABASE__POOL__MAX_OPEN_CONNS sets
// database.pool.max_open_conns.
const envPrefix = "APP__"

func envKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, envPrefix)), "__", ".")
}

// Load reads the YAML file at configPath, applies APP__ environment
// overrides and validates the result.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate normalises the loaded values, fills optional ones with their
// defaults and reports the first setting that cannot work.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateAuth,
		c.validateCache,
		c.validateLog,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

var (
	serverModes      = []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode}
	databaseDrivers  = []string{"sqlite", "postgres"}
	sslModes         = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	encryptedSSLMode = []string{"require", "verify-ca", "verify-full"}
	cacheDrivers     = []string{"memory", "redis"}
	logLevels        = []string{"debug", "info", "warn", "error"}
	logFormats       = []string{"text", "json"}
)

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q: must be one of %s", key, value, strings.Join(allowed, ", "))
}

func validPort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", key, port)
	}
	return nil
}

// present trims *value in place and fails when nothing is left.
func present(key string, value *string, suffix string) error {
	*value = strings.TrimSpace(*value)
	if *value == "" {
		return fmt.Errorf("%s is required%s", key, suffix)
	}
	return nil
}

func (c *Config) validateServer() error {
	srv := &c.Server
	srv.Mode = strings.TrimSpace(srv.Mode)
	if err := oneOf("server.mode", srv.Mode, serverModes); err != nil {
		return err
	}
	if err := validPort("server.port", srv.Port); err != nil {
		return err
	}
	if err := present("server.host", &srv.Host, ""); err != nil {
		return err
	}

	base := strings.TrimRight(strings.TrimSpace(srv.PublicURL), "/")
	if base == "" {
		base = "http://" + net.JoinHostPort(srv.Host, strconv.Itoa(srv.Port))
	}
	u, err := url.Parse(base)
	switch {
	case err != nil:
		return fmt.Errorf("invalid server.public_url %q: %w", srv.PublicURL, err)
	case (u.Scheme != "http" && u.Scheme != "https") || u.Host == "":
		return fmt.Errorf("invalid server.public_url %q: must be an absolute http or https URL", srv.PublicURL)
	case u.RawQuery != "" || u.Fragment != "":
		return fmt.Errorf("invalid server.public_url %q: must not carry a query or fragment", srv.PublicURL)
	}
	srv.PublicURL = base

	srv.Timeout = strings.TrimSpace(srv.Timeout)
	if err := checkDuration("server.timeout", srv.Timeout); err != nil {
		return err
	}
	srv.CORS.MaxAge = strings.TrimSpace(srv.CORS.MaxAge)
	return checkDuration("server.cors.max_age", srv.CORS.MaxAge)
}

func (c *Config) validateDatabase() error {
	db := &c.Database
	if err := oneOf("database.driver", db.Driver, databaseDrivers); err != nil {
		return err
	}
	if db.Driver == "sqlite" {
		if err := present("database.sqlite.path", &db.SQLite.Path, " when driver is sqlite"); err != nil {
			return err
		}
	} else if err := c.validatePostgres(); err != nil {
		return err
	}

	db.Pool.ConnMaxLifetime = strings.TrimSpace(db.Pool.ConnMaxLifetime)
	return checkDuration("database.pool.conn_max_lifetime", db.Pool.ConnMaxLifetime)
}

func (c *Config) validatePostgres() error {
	pg := &c.Database.Postgres
	const when = " when driver is postgres"

	if err := present("database.postgres.host", &pg.Host, when); err != nil {
		return err
	}
	if err := validPort("database.postgres.port", pg.Port); err != nil {
		return err
	}
	if err := present("database.postgres.user", &pg.User, when); err != nil {
		return err
	}
	if err := present("database.postgres.dbname", &pg.DBName, when); err != nil {
		return err
	}

	pg.SSLMode = strings.TrimSpace(pg.SSLMode)
	if err := oneOf("database.postgres.sslmode", pg.SSLMode, sslModes); err != nil {
		return err
	}
	if c.Server.Mode == gin.ReleaseMode && !slices.Contains(encryptedSSLMode, pg.SSLMode) {
		return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %s",
			pg.SSLMode, gin.ReleaseMode, strings.Join(encryptedSSLMode, ", "))
	}
	return nil
}

func (c *Config) validateAuth() error {
	a := &c.Auth
	if err := present("auth.jwt_secret", &a.JWTSecret, ""); err != nil {
		return err
	}
	if len(a.JWTSecret) < 32 {
		return fmt.Errorf("invalid auth.jwt_secret: must be at least 32 characters")
	}
	if c.Server.Mode == gin.ReleaseMode && CountSecretClasses(a.JWTSecret) < 3 {
		return fmt.Errorf("auth.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}

	a.TokenExpiry = orDefault(a.TokenExpiry, defaultTokenExpiry)
	if err := checkDuration("auth.token_expiry", a.TokenExpiry); err != nil {
		return err
	}
	a.Issuer = orDefault(a.Issuer, defaultIssuer)
	return nil
}

// validateCache skips a disabled cache entirely so a half-filled block can
// stay in the file.
func (c *Config) validateCache() error {
	cc := &c.Cache
	if !cc.Enabled {
		return nil
	}

	cc.Driver = strings.ToLower(orDefault(cc.Driver, defaultCacheDriver))
	cc.TTL = orDefault(cc.TTL, defaultCacheTTL)
	if err := checkDuration("cache.ttl", cc.TTL); err != nil {
		return err
	}
	if err := oneOf("cache.driver", cc.Driver, cacheDrivers); err != nil {
		return err
	}

	if cc.Driver == "memory" {
		if cc.MaxSize <= 0 {
			return fmt.Errorf("invalid cache.max_size %d: must be positive for the memory driver", cc.MaxSize)
		}
		return nil
	}
	if err := present("cache.redis.addr", &cc.Redis.Addr, " for the redis driver"); err != nil {
		return err
	}
	if cc.Redis.DB < 0 {
		return fmt.Errorf("invalid cache.redis.db %d: must not be negative", cc.Redis.DB)
	}
	cc.Redis.Timeout = strings.TrimSpace(cc.Redis.Timeout)
	return checkDuration("cache.redis.timeout", cc.Redis.Timeout)
}

func (c *Config) validateLog() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if err := oneOf("log.level", c.Log.Level, logLevels); err != nil {
		return err
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	return oneOf("log.format", c.Log.Format, logFormats)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// checkDuration accepts an empty value or a positive Go duration.
func checkDuration(key, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", key, value)
	}
	return nil
}

// CountSecretClasses reports how many of lowercase, uppercase, digits and
// other runes appear in secret.
func CountSecretClasses(secret string) int {
	var seen [4]bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			seen[0] = true
		case unicode.IsUpper(r):
			seen[1] = true
		case unicode.IsDigit(r):
			seen[2] = true
		default:
			seen[3] = true
		}
	}
	n := 0
	for _, ok := range seen {
		if ok {
			n++
		}
	}
	return n
}

// ParseDurationOr returns fallback for an empty or unusable value. Values
// that passed Validate always parse.
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}
