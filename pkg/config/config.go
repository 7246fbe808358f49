package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Checkout     CheckoutConfig
	Inquiries    InquiriesConfig
	HTTP         HTTPConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	switch cfg.Storage.Backend {
	case StorageBackendSQL:
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	case StorageBackendRedis:
		if cfg.Redis.URL == "" && cfg.Redis.Address == "" {
			return nil, fmt.Errorf("%s or %s is required for the redis storage backend", EnvRedisURL, EnvRedisAddr)
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ZORA_APP_ENV" required:"true"`
	Port         string `envconfig:"ZORA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ZORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the durable key/value backend for session state.
type StorageConfig struct {
	Backend    string        `envconfig:"ZORA_STORAGE_BACKEND" default:"memory"`
	SessionTTL time.Duration `envconfig:"ZORA_STORAGE_SESSION_TTL" default:"720h"`

	// IdleEvict drops in-process carts untouched for this long; they reload from the backend on next use.
	IdleEvict     time.Duration `envconfig:"ZORA_STORAGE_IDLE_EVICT" default:"30m"`
	SweepInterval time.Duration `envconfig:"ZORA_STORAGE_SWEEP_INTERVAL" default:"5m"`
}

func (s *StorageConfig) validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case StorageBackendMemory, StorageBackendRedis, StorageBackendSQL:
		return nil
	default:
		return fmt.Errorf("%s must be one of memory, redis, sql (got %q)", EnvStorageBackend, s.Backend)
	}
}

type DBConfig struct {
	DSN    string `envconfig:"ZORA_DB_DSN"`
	Driver string `envconfig:"ZORA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ZORA_DB_HOST"`
	LegacyPort     int    `envconfig:"ZORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ZORA_DB_USER"`
	LegacyPassword string `envconfig:"ZORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ZORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ZORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ZORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ZORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ZORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ZORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"ZORA_REDIS_URL"`
	Address      string        `envconfig:"ZORA_REDIS_ADDR"`
	Password     string        `envconfig:"ZORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ZORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ZORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CatalogConfig struct {
	FixturePath string `envconfig:"ZORA_CATALOG_FIXTURE_PATH"`
}

type CheckoutConfig struct {
	Delay          time.Duration `envconfig:"ZORA_CHECKOUT_DELAY" default:"1500ms"`
	IdempotencyTTL time.Duration `envconfig:"ZORA_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type InquiriesConfig struct {
	Delay      time.Duration `envconfig:"ZORA_INQUIRY_DELAY" default:"1s"`
	Window     time.Duration `envconfig:"ZORA_INQUIRY_RATE_LIMIT_WINDOW" default:"10m"`
	IPLimit    int           `envconfig:"ZORA_INQUIRY_RATE_LIMIT_IP_LIMIT" default:"20"`
	EmailLimit int           `envconfig:"ZORA_INQUIRY_RATE_LIMIT_EMAIL_LIMIT" default:"3"`

	// FingerprintKey keys the email hashes used in rate-limit keys and logs. At most 64 bytes.
	FingerprintKey string `envconfig:"ZORA_INQUIRY_FINGERPRINT_KEY"`
}

type HTTPConfig struct {
	AllowedOrigins  []string      `envconfig:"ZORA_CORS_ALLOWED_ORIGINS" default:"*"`
	ReadTimeout     time.Duration `envconfig:"ZORA_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"ZORA_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"ZORA_HTTP_SHUTDOWN_TIMEOUT" default:"20s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ZORA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:zora.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
