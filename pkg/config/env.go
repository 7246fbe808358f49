package config

const EnvPrefix = "ZORA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
	StorageBackendSQL    = "sql"
)

const (
	EnvAppEnv       = "ZORA_APP_ENV"
	EnvPort         = "ZORA_APP_PORT"
	EnvLogLevel     = "ZORA_LOG_LEVEL"
	EnvLogWarnStack = "ZORA_LOG_WARN_STACK"

	EnvStorageBackend = "ZORA_STORAGE_BACKEND"
	EnvStorageIdle    = "ZORA_STORAGE_IDLE_EVICT"

	EnvDBDSN      = "ZORA_DB_DSN"
	EnvDBDriver   = "ZORA_DB_DRIVER"
	EnvDBHost     = "ZORA_DB_HOST"
	EnvDBPort     = "ZORA_DB_PORT"
	EnvDBUser     = "ZORA_DB_USER"
	EnvDBPassword = "ZORA_DB_PASSWORD"
	EnvDBName     = "ZORA_DB_NAME"
	EnvDBSSLMode  = "ZORA_DB_SSLMODE"

	EnvRedisURL  = "ZORA_REDIS_URL"
	EnvRedisAddr = "ZORA_REDIS_ADDR"

	EnvCatalogFixturePath = "ZORA_CATALOG_FIXTURE_PATH"

	EnvCheckoutDelay = "ZORA_CHECKOUT_DELAY"

	EnvInquiryDelay       = "ZORA_INQUIRY_DELAY"
	EnvInquiryWindow      = "ZORA_INQUIRY_RATE_LIMIT_WINDOW"
	EnvInquiryIPLimit     = "ZORA_INQUIRY_RATE_LIMIT_IP_LIMIT"
	EnvInquiryEmailLimit  = "ZORA_INQUIRY_RATE_LIMIT_EMAIL_LIMIT"
	EnvInquiryFingerprint = "ZORA_INQUIRY_FINGERPRINT_KEY"
	EnvCORSAllowedOrigins = "ZORA_CORS_ALLOWED_ORIGINS"
	EnvAutoMigrate        = "ZORA_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
