package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable this service reads.
const EnvPrefix = "RECEIPTDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Reports       ReportsConfig
	GCS           GCSConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load parses the environment into a Config and derives the DB DSN.
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
	Env          string   `envconfig:"RECEIPTDESK_APP_ENV" required:"true"`
	Port         string   `envconfig:"RECEIPTDESK_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"RECEIPTDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"RECEIPTDESK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"RECEIPTDESK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RECEIPTDESK_DB_DSN"`

	Host     string `envconfig:"RECEIPTDESK_DB_HOST"`
	Port     int    `envconfig:"RECEIPTDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"RECEIPTDESK_DB_USER"`
	Password string `envconfig:"RECEIPTDESK_DB_PASSWORD"`
	Name     string `envconfig:"RECEIPTDESK_DB_NAME"`
	SSLMode  string `envconfig:"RECEIPTDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RECEIPTDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RECEIPTDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RECEIPTDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RECEIPTDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RECEIPTDESK_REDIS_URL"`
	Address      string        `envconfig:"RECEIPTDESK_REDIS_ADDR"`
	Password     string        `envconfig:"RECEIPTDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"RECEIPTDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RECEIPTDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RECEIPTDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RECEIPTDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RECEIPTDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RECEIPTDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RECEIPTDESK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RECEIPTDESK_JWT_ISSUER" default:"receiptdesk"`
	ExpirationMinutes      int    `envconfig:"RECEIPTDESK_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"RECEIPTDESK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RECEIPTDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RECEIPTDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RECEIPTDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RECEIPTDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RECEIPTDESK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RECEIPTDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RECEIPTDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RECEIPTDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RECEIPTDESK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RECEIPTDESK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RECEIPTDESK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// ReportsConfig tunes sales-report aggregation and rendering.
type ReportsConfig struct {
	MaxRangeDays  int    `envconfig:"RECEIPTDESK_REPORTS_MAX_RANGE_DAYS" default:"366"`
	TopItemsLimit int    `envconfig:"RECEIPTDESK_REPORTS_TOP_ITEMS_LIMIT" default:"5"`
	CurrencyGlyph string `envconfig:"RECEIPTDESK_REPORTS_CURRENCY_GLYPH" default:"$"`
	Timezone      string `envconfig:"RECEIPTDESK_REPORTS_TIMEZONE" default:"UTC"`
}

// Location resolves the configured IANA timezone used to bucket receipts
// into calendar days.
func (r ReportsConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reports timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

type GCSConfig struct {
	BucketName             string        `envconfig:"RECEIPTDESK_GCS_BUCKET_NAME"`
	UploadURLExpiry        time.Duration `envconfig:"RECEIPTDESK_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry      time.Duration `envconfig:"RECEIPTDESK_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
	CredentialsJSON        string        `envconfig:"RECEIPTDESK_GCS_CREDENTIALS_JSON"`
	ApplicationCredentials string        `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RECEIPTDESK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"RECEIPTDESK_DB_HOST": db.Host,
		"RECEIPTDESK_DB_USER": db.User,
		"RECEIPTDESK_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either RECEIPTDESK_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
