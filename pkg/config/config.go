package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ANIMETOKEN_DB_DSN"
	EnvDBHost = "ANIMETOKEN_DB_HOST"
	EnvDBUser = "ANIMETOKEN_DB_USER"
	EnvDBName = "ANIMETOKEN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Storage      StorageConfig
	Media        MediaConfig
	Chain        ChainConfig
	Fees         FeeConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ANIMETOKEN_APP_ENV" required:"true"`
	Port         string `envconfig:"ANIMETOKEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ANIMETOKEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ANIMETOKEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ANIMETOKEN_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ANIMETOKEN_DB_DSN"`
	Driver string `envconfig:"ANIMETOKEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ANIMETOKEN_DB_HOST"`
	LegacyPort     int    `envconfig:"ANIMETOKEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ANIMETOKEN_DB_USER"`
	LegacyPassword string `envconfig:"ANIMETOKEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"ANIMETOKEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"ANIMETOKEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ANIMETOKEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ANIMETOKEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ANIMETOKEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ANIMETOKEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ANIMETOKEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ANIMETOKEN_REDIS_ADDR"`
	Password     string        `envconfig:"ANIMETOKEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"ANIMETOKEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ANIMETOKEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ANIMETOKEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ANIMETOKEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ANIMETOKEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ANIMETOKEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ANIMETOKEN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ANIMETOKEN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ANIMETOKEN_JWT_EXPIRATION_MINUTES" required:"true"`
}

// RateLimitConfig throttles the expensive authenticated surfaces. A zero
// window or limit disables the policy.
type RateLimitConfig struct {
	SubmitWindow time.Duration `envconfig:"ANIMETOKEN_RATE_LIMIT_SUBMIT_WINDOW" default:"1m"`
	SubmitLimit  int           `envconfig:"ANIMETOKEN_RATE_LIMIT_SUBMIT_LIMIT" default:"5"`
	StageWindow  time.Duration `envconfig:"ANIMETOKEN_RATE_LIMIT_STAGE_WINDOW" default:"1m"`
	StageLimit   int           `envconfig:"ANIMETOKEN_RATE_LIMIT_STAGE_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ANIMETOKEN_AUTO_MIGRATE" default:"false"`
}

// StorageConfig points at the Supabase storage project backing media uploads.
type StorageConfig struct {
	ProjectURL     string `envconfig:"ANIMETOKEN_STORAGE_PROJECT_URL" required:"true"`
	ServiceRoleKey string `envconfig:"ANIMETOKEN_STORAGE_SERVICE_ROLE_KEY" required:"true"`
	MediaBucket    string `envconfig:"ANIMETOKEN_STORAGE_MEDIA_BUCKET" default:"nft-assets"`
	StagingBucket  string `envconfig:"ANIMETOKEN_STORAGE_STAGING_BUCKET" default:"nft-staging"`
	MetadataBucket string `envconfig:"ANIMETOKEN_STORAGE_METADATA_BUCKET" default:"nft-metadata"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"ANIMETOKEN_MAX_UPLOAD_MB" default:"50"`
}

// ChainConfig points at the on-chain minting edge service.
type ChainConfig struct {
	MintServiceURL string        `envconfig:"ANIMETOKEN_CHAIN_MINT_SERVICE_URL" required:"true"`
	ServiceKey     string        `envconfig:"ANIMETOKEN_CHAIN_SERVICE_KEY"`
	RequestTimeout time.Duration `envconfig:"ANIMETOKEN_CHAIN_REQUEST_TIMEOUT" default:"30s"`
	ExplorerBase   string        `envconfig:"ANIMETOKEN_CHAIN_EXPLORER_BASE" default:"https://solscan.io"`
}

type FeeConfig struct {
	EstimateURL string        `envconfig:"ANIMETOKEN_FEE_ESTIMATE_URL" required:"true"`
	CacheTTL    time.Duration `envconfig:"ANIMETOKEN_FEE_CACHE_TTL" default:"30s"`
	StaleTTL    time.Duration `envconfig:"ANIMETOKEN_FEE_STALE_TTL" default:"10m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ANIMETOKEN_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ANIMETOKEN_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ANIMETOKEN_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	MintTopic            string `envconfig:"ANIMETOKEN_PUBSUB_MINT_TOPIC" default:"at-mint-events"`
	MintSubscription     string `envconfig:"ANIMETOKEN_PUBSUB_MINT_SUBSCRIPTION"`
	SecurityTopic        string `envconfig:"ANIMETOKEN_PUBSUB_SECURITY_TOPIC" default:"at-security-events"`
	SecuritySubscription string `envconfig:"ANIMETOKEN_PUBSUB_SECURITY_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ANIMETOKEN_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ANIMETOKEN_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ANIMETOKEN_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
