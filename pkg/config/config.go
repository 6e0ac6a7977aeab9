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
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Import        ImportConfig
	Visitors      VisitorsConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"KNITINFO_APP_ENV" required:"true"`
	Port         string `envconfig:"KNITINFO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"KNITINFO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KNITINFO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KNITINFO_DB_DSN"`
	Driver string `envconfig:"KNITINFO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KNITINFO_DB_HOST"`
	LegacyPort     int    `envconfig:"KNITINFO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KNITINFO_DB_USER"`
	LegacyPassword string `envconfig:"KNITINFO_DB_PASSWORD"`
	LegacyName     string `envconfig:"KNITINFO_DB_NAME"`
	LegacySSLMode  string `envconfig:"KNITINFO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KNITINFO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KNITINFO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KNITINFO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KNITINFO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a DSN from the discrete host/user variables when a full
// DSN is not supplied.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either KNITINFO_DB_DSN or KNITINFO_DB_HOST/USER/NAME must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"KNITINFO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KNITINFO_REDIS_ADDR"`
	Password     string        `envconfig:"KNITINFO_REDIS_PASSWORD"`
	DB           int           `envconfig:"KNITINFO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KNITINFO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KNITINFO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KNITINFO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KNITINFO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KNITINFO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KNITINFO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KNITINFO_JWT_ISSUER" default:"knitinfo"`
	ExpirationMinutes int    `envconfig:"KNITINFO_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KNITINFO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KNITINFO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KNITINFO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KNITINFO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KNITINFO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"KNITINFO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"KNITINFO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"KNITINFO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SubmitWindow    time.Duration `envconfig:"KNITINFO_AUTH_RATE_LIMIT_SUBMIT_WINDOW" default:"5m"`
	SubmitIPLimit   int           `envconfig:"KNITINFO_AUTH_RATE_LIMIT_SUBMIT_IP_LIMIT" default:"30"`
}

type ImportConfig struct {
	// MaxUploadBytes bounds the spreadsheet multipart body.
	MaxUploadBytes int64 `envconfig:"KNITINFO_IMPORT_MAX_UPLOAD_BYTES" default:"10485760"`
	MaxRows        int   `envconfig:"KNITINFO_IMPORT_MAX_ROWS" default:"10000"`
}

type VisitorsConfig struct {
	ActiveWindow time.Duration `envconfig:"KNITINFO_VISITORS_ACTIVE_WINDOW" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KNITINFO_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KNITINFO_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
