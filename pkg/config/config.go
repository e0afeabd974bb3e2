package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STOCKTRACK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "STOCKTRACK_DB_DSN"
	EnvDBHost = "STOCKTRACK_DB_HOST"
	EnvDBUser = "STOCKTRACK_DB_USER"
	EnvDBName = "STOCKTRACK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Fulfillment  FulfillmentConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"STOCKTRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKTRACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKTRACK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"STOCKTRACK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKTRACK_DB_DSN"`
	Driver string `envconfig:"STOCKTRACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKTRACK_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKTRACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKTRACK_DB_USER"`
	LegacyPassword string `envconfig:"STOCKTRACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKTRACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKTRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKTRACK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOCKTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOCKTRACK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOCKTRACK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOCKTRACK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"STOCKTRACK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOCKTRACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOCKTRACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOCKTRACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOCKTRACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOCKTRACK_ARGON_KEY_LEN" default:"32"`
}

// FulfillmentConfig tunes workflow policy that the data model leaves open.
type FulfillmentConfig struct {
	// CancelFromAnyState permits the owner status override to cancel orders
	// that are already fulfilled or received. When false, cancel is only
	// accepted before fulfillment completes.
	CancelFromAnyState bool `envconfig:"STOCKTRACK_FULFILLMENT_CANCEL_FROM_ANY" default:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKTRACK_AUTO_MIGRATE" default:"false"`
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
