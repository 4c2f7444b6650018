package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "Bilemo-Signing-Key-2024-xY9#qRt7!mZ"

// document holds the body of each top-level block of a config file.
type document struct {
	server, database, log, auth, cache string
}

func sqliteDocument() document {
	return document{
		server:   "  host: \"0.0.0.0\"\n  port: 8443\n  mode: \"debug\"\n",
		database: "  driver: \"sqlite\"\n  sqlite:\n    path: \"var/bilemo.db\"\n",
		log:      "  level: \"info\"\n  format: \"json\"\n",
		auth:     "  jwt_secret: \"" + jwtSecret + "\"\n",
	}
}

func (d document) String() string {
	var b strings.Builder
	for _, block := range []struct{ name, body string }{
		{"server", d.server},
		{"database", d.database},
		{"log", d.log},
		{"auth", d.auth},
		{"cache", d.cache},
	} {
		if block.body != "" {
			b.WriteString(block.name + ":\n" + block.body)
		}
	}
	return b.String()
}

func loadDocument(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return Load(path)
}

func TestLoad_ReadsEveryBlock(t *testing.T) {
	doc := document{
		server: "  host: \"10.0.0.5\"\n  port: 9000\n  mode: \"release\"\n" +
			"  public_url: \"https://api.bilemo.test/\"\n  trust_request_id: true\n",
		database: "  driver: \"postgres\"\n  postgres:\n    host: \"pg.internal\"\n    port: 6432\n" +
			"    user: \"bilemo\"\n    password: \"s3cret\"\n    dbname: \"catalog\"\n    sslmode: \"verify-full\"\n" +
			"  pool:\n    max_idle_conns: 4\n    max_open_conns: 40\n    conn_max_lifetime: \"45m\"\n",
		log:   "  level: \"warn\"\n  format: \"text\"\n",
		auth:  "  jwt_secret: \"" + jwtSecret + "\"\n  token_expiry: \"20m\"\n  issuer: \"bilemo-test\"\n",
		cache: "  enabled: true\n  driver: \"redis\"\n  ttl: \"90s\"\n  redis:\n    addr: \"redis.internal:6379\"\n    db: 3\n",
	}

	cfg, err := loadDocument(t, doc.String())
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://api.bilemo.test", cfg.Server.PublicURL, "trailing slash trimmed")
	assert.True(t, cfg.Server.TrustRequestID)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "pg.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 6432, cfg.Database.Postgres.Port)
	assert.Equal(t, "verify-full", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 40, cfg.Database.Pool.MaxOpenConns)
	assert.Equal(t, "45m", cfg.Database.Pool.ConnMaxLifetime)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "20m", cfg.Auth.TokenExpiry)
	assert.Equal(t, "bilemo-test", cfg.Auth.Issuer)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "90s", cfg.Cache.TTL)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 3, cfg.Cache.Redis.DB)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	doc := sqliteDocument()
	doc.cache = "  enabled: true\n  driver: \"redis\"\n  redis:\n    addr: \"localhost:6379\"\n"

	t.Setenv("APP__SERVER__PORT", "8081")
	t.Setenv("APP__LOG__LEVEL", "debug")
	t.Setenv("APP__DATABASE__POOL__MAX_OPEN_CONNS", "8")
	t.Setenv("APP__AUTH__TOKEN_EXPIRY", "30m")
	t.Setenv("APP__CACHE__REDIS__ADDR", "redis:6380")

	cfg, err := loadDocument(t, doc.String())
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Database.Pool.MaxOpenConns)
	assert.Equal(t, "30m", cfg.Auth.TokenExpiry)
	assert.Equal(t, "redis:6380", cfg.Cache.Redis.Addr)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "keys without a variable keep the file value")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_FillsDefaults(t *testing.T) {
	cfg, err := loadDocument(t, sqliteDocument().String())
	require.NoError(t, err)

	assert.Equal(t, "http://0.0.0.0:8443", cfg.Server.PublicURL)
	assert.Equal(t, "1h", cfg.Auth.TokenExpiry)
	assert.Equal(t, "bilemo", cfg.Auth.Issuer)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_Rejects(t *testing.T) {
	const pgBase = "  driver: \"postgres\"\n  postgres:\n"

	tests := []struct {
		name    string
		edit    func(d *document)
		wantErr string
	}{
		{"mode", func(d *document) { d.server = strings.Replace(d.server, `"debug"`, `"staging"`, 1) }, "server.mode"},
		{"port zero", func(d *document) { d.server = strings.Replace(d.server, "8443", "0", 1) }, "server.port"},
		{"port above range", func(d *document) { d.server = strings.Replace(d.server, "8443", "65536", 1) }, "server.port"},
		{"blank host", func(d *document) { d.server = strings.Replace(d.server, `"0.0.0.0"`, `"  "`, 1) }, "server.host"},
		{"relative public url", func(d *document) { d.server += "  public_url: \"/v1\"\n" }, "server.public_url"},
		{"public url with query", func(d *document) { d.server += "  public_url: \"https://api.test?x=1\"\n" }, "server.public_url"},
		{"public url scheme", func(d *document) { d.server += "  public_url: \"ws://api.test\"\n" }, "server.public_url"},
		{"negative timeout", func(d *document) { d.server += "  timeout: \"-1s\"\n" }, "server.timeout"},
		{"cors max age", func(d *document) { d.server += "  cors:\n    max_age: \"a day\"\n" }, "server.cors.max_age"},

		{"driver", func(d *document) { d.database = "  driver: \"oracle\"\n" }, "database.driver"},
		{"sqlite path", func(d *document) { d.database = "  driver: \"sqlite\"\n  sqlite:\n    path: \" \"\n" }, "database.sqlite.path"},
		{"postgres host", func(d *document) {
			d.database = pgBase + "    port: 5432\n    user: \"u\"\n    dbname: \"d\"\n    sslmode: \"disable\"\n"
		}, "database.postgres.host"},
		{"postgres user", func(d *document) {
			d.database = pgBase + "    host: \"h\"\n    port: 5432\n    dbname: \"d\"\n    sslmode: \"disable\"\n"
		}, "database.postgres.user"},
		{"postgres dbname", func(d *document) {
			d.database = pgBase + "    host: \"h\"\n    port: 5432\n    user: \"u\"\n    sslmode: \"disable\"\n"
		}, "database.postgres.dbname"},
		{"postgres port", func(d *document) {
			d.database = pgBase + "    host: \"h\"\n    port: -1\n    user: \"u\"\n    dbname: \"d\"\n    sslmode: \"disable\"\n"
		}, "database.postgres.port"},
		{"postgres sslmode", func(d *document) {
			d.database = pgBase + "    host: \"h\"\n    port: 5432\n    user: \"u\"\n    dbname: \"d\"\n    sslmode: \"maybe\"\n"
		}, "database.postgres.sslmode"},
		{"postgres plaintext in release", func(d *document) {
			d.server = strings.Replace(d.server, `"debug"`, `"release"`, 1)
			d.database = pgBase + "    host: \"h\"\n    port: 5432\n    user: \"u\"\n    dbname: \"d\"\n    sslmode: \"disable\"\n"
		}, "database.postgres.sslmode"},
		{"pool lifetime", func(d *document) { d.database += "  pool:\n    conn_max_lifetime: \"0s\"\n" }, "database.pool.conn_max_lifetime"},

		{"log level", func(d *document) { d.log = "  level: \"trace\"\n  format: \"json\"\n" }, "log.level"},
		{"log format", func(d *document) { d.log = "  level: \"info\"\n  format: \"xml\"\n" }, "log.format"},

		{"missing secret", func(d *document) { d.auth = "" }, "auth.jwt_secret is required"},
		{"short secret", func(d *document) { d.auth = "  jwt_secret: \"bilemo\"\n" }, "at least 32 characters"},
		{"unparsable expiry", func(d *document) { d.auth += "  token_expiry: \"tomorrow\"\n" }, "auth.token_expiry"},
		{"negative expiry", func(d *document) { d.auth += "  token_expiry: \"-30m\"\n" }, "auth.token_expiry"},
		{"single class secret in release", func(d *document) {
			d.server = strings.Replace(d.server, `"debug"`, `"release"`, 1)
			d.auth = "  jwt_secret: \"" + strings.Repeat("k", 48) + "\"\n"
		}, "character classes"},

		{"memory cache size", func(d *document) { d.cache = "  enabled: true\n  driver: \"memory\"\n" }, "cache.max_size"},
		{"redis addr", func(d *document) { d.cache = "  enabled: true\n  driver: \"redis\"\n" }, "cache.redis.addr"},
		{"redis db", func(d *document) {
			d.cache = "  enabled: true\n  driver: \"redis\"\n  redis:\n    addr: \"r:6379\"\n    db: -2\n"
		}, "cache.redis.db"},
		{"redis timeout", func(d *document) {
			d.cache = "  enabled: true\n  driver: \"redis\"\n  redis:\n    addr: \"r:6379\"\n    timeout: \"soon\"\n"
		}, "cache.redis.timeout"},
		{"cache ttl", func(d *document) { d.cache = "  enabled: true\n  ttl: \"0s\"\n  max_size: 10\n" }, "cache.ttl"},
		{"cache driver", func(d *document) { d.cache = "  enabled: true\n  driver: \"memcached\"\n" }, "cache.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sqliteDocument()
			tt.edit(&doc)

			_, err := loadDocument(t, doc.String())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Accepts(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *document)
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "memory cache defaults",
			edit: func(d *document) { d.cache = "  enabled: true\n  max_size: 500\n" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "memory", cfg.Cache.Driver)
				assert.Equal(t, "1h", cfg.Cache.TTL)
			},
		},
		{
			name: "driver name is case insensitive",
			edit: func(d *document) {
				d.cache = "  enabled: true\n  driver: \"REDIS\"\n  redis:\n    addr: \"r:6379\"\n"
			},
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "redis", cfg.Cache.Driver) },
		},
		{
			name:  "disabled cache is not validated",
			edit:  func(d *document) { d.cache = "  enabled: false\n  driver: \"memcached\"\n" },
			check: func(t *testing.T, cfg *Config) { assert.False(t, cfg.Cache.Enabled) },
		},
		{
			name: "single class secret in debug",
			edit: func(d *document) { d.auth = "  jwt_secret: \"" + strings.Repeat("k", 48) + "\"\n" },
			check: func(t *testing.T, cfg *Config) {
				assert.Len(t, cfg.Auth.JWTSecret, 48)
			},
		},
		{
			name: "log settings normalized",
			edit: func(d *document) { d.log = "  level: \" Error \"\n  format: \"JSON\"\n" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Log.Level)
				assert.Equal(t, "json", cfg.Log.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sqliteDocument()
			tt.edit(&doc)

			cfg, err := loadDocument(t, doc.String())
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "1h", cfg.Cache.TTL)
	assert.Contains(t, cfg.Server.CORS.ExposeHeaders, "Location")
}

func TestCountSecretClasses(t *testing.T) {
	for secret, want := range map[string]int{
		"":            0,
		"bilemo":      1,
		"2024":        1,
		"#!?":         1,
		"BileMo":      2,
		"BileMo2024":  3,
		"BileMo-2024": 4,
		jwtSecret:     4,
		"ÉCOLE":       1,
	} {
		assert.Equal(t, want, CountSecretClasses(secret), "secret %q", secret)
	}
}

func TestParseDurationOr(t *testing.T) {
	const fallback = 5 * time.Second

	assert.Equal(t, fallback, ParseDurationOr("", fallback))
	assert.Equal(t, fallback, ParseDurationOr("a while", fallback))
	assert.Equal(t, 250*time.Millisecond, ParseDurationOr("250ms", fallback))
}
