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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Stripe       StripeConfig
	Outbox       OutboxConfig
	Metrics      MetricsConfig
	AuthLimits   AuthRateLimitConfig
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
	Env          string `envconfig:"GASTLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"GASTLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GASTLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GASTLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GASTLINK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GASTLINK_DB_DSN"`
	Driver string `envconfig:"GASTLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GASTLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"GASTLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GASTLINK_DB_USER"`
	LegacyPassword string `envconfig:"GASTLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"GASTLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"GASTLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GASTLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GASTLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GASTLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GASTLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GASTLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GASTLINK_REDIS_ADDR"`
	Password     string        `envconfig:"GASTLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"GASTLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GASTLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GASTLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GASTLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GASTLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GASTLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GASTLINK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GASTLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"GASTLINK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"GASTLINK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GASTLINK_AUTH_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"GASTLINK_AUTH_LOGIN_IP_LIMIT" default:"30"`
	LoginEmailLimit    int           `envconfig:"GASTLINK_AUTH_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"GASTLINK_AUTH_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"GASTLINK_AUTH_REGISTER_IP_LIMIT" default:"20"`
	RegisterEmailLimit int           `envconfig:"GASTLINK_AUTH_REGISTER_EMAIL_LIMIT" default:"5"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GASTLINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GASTLINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GASTLINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GASTLINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GASTLINK_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GASTLINK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GASTLINK_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"GASTLINK_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GASTLINK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"GASTLINK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GASTLINK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"GASTLINK_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"GASTLINK_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type StripeConfig struct {
	APIKey string `envconfig:"GASTLINK_STRIPE_API_KEY"`
	Secret string `envconfig:"GASTLINK_STRIPE_SECRET"`
	Env    string `envconfig:"GASTLINK_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GASTLINK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GASTLINK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GASTLINK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type MetricsConfig struct {
	Port string `envconfig:"GASTLINK_METRICS_PORT" default:"9102"`
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
