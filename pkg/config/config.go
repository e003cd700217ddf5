package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every BookWorm environment variable.
	EnvPrefix = "BOOKWORM"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BOOKWORM_DB_DSN"
	EnvDBHost = "BOOKWORM_DB_HOST"
	EnvDBUser = "BOOKWORM_DB_USER"
	EnvDBName = "BOOKWORM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Checkout      CheckoutConfig
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
	Env          string `envconfig:"BOOKWORM_APP_ENV" required:"true"`
	Port         string `envconfig:"BOOKWORM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BOOKWORM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOKWORM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BOOKWORM_DB_DSN"`
	Driver string `envconfig:"BOOKWORM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BOOKWORM_DB_HOST"`
	LegacyPort     int    `envconfig:"BOOKWORM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BOOKWORM_DB_USER"`
	LegacyPassword string `envconfig:"BOOKWORM_DB_PASSWORD"`
	LegacyName     string `envconfig:"BOOKWORM_DB_NAME"`
	LegacySSLMode  string `envconfig:"BOOKWORM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BOOKWORM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOOKWORM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOOKWORM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOKWORM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOKWORM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BOOKWORM_REDIS_ADDR"`
	Password     string        `envconfig:"BOOKWORM_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOKWORM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOKWORM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOKWORM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOKWORM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOKWORM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOKWORM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BOOKWORM_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BOOKWORM_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BOOKWORM_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BOOKWORM_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BOOKWORM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BOOKWORM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BOOKWORM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BOOKWORM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BOOKWORM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BOOKWORM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BOOKWORM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BOOKWORM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BOOKWORM_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BOOKWORM_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BOOKWORM_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BOOKWORM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BOOKWORM_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BOOKWORM_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"BOOKWORM_PUBSUB_ORDERS_TOPIC" default:"bw-order-events"`
	OrdersSubscription string `envconfig:"BOOKWORM_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BOOKWORM_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BOOKWORM_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BOOKWORM_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CheckoutConfig struct {
	MaxQuantityPerItem int `envconfig:"BOOKWORM_CHECKOUT_MAX_QTY" default:"8"`
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
