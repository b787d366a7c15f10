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
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Stripe       StripeConfig
	Storage      StorageConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"LAHINCH_APP_ENV" required:"true"`
	Port         string `envconfig:"LAHINCH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LAHINCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAHINCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LAHINCH_DB_DSN"`
	Driver string `envconfig:"LAHINCH_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LAHINCH_DB_HOST"`
	Port     int    `envconfig:"LAHINCH_DB_PORT" default:"5432"`
	User     string `envconfig:"LAHINCH_DB_USER"`
	Password string `envconfig:"LAHINCH_DB_PASSWORD"`
	Name     string `envconfig:"LAHINCH_DB_NAME"`
	SSLMode  string `envconfig:"LAHINCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAHINCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAHINCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAHINCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAHINCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAHINCH_REDIS_URL"`
	PoolSize     int           `envconfig:"LAHINCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAHINCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAHINCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAHINCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAHINCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	SecretKey string `envconfig:"LAHINCH_STRIPE_SECRET_KEY"`
	// Currency applies to every payment intent the gallery creates.
	Currency string `envconfig:"LAHINCH_STRIPE_CURRENCY" default:"eur"`
	// SubscriptionAmountCents is the lifetime subscription price in the
	// currency's smallest unit.
	SubscriptionAmountCents int64 `envconfig:"LAHINCH_SUBSCRIPTION_AMOUNT_CENTS" default:"199"`
}

type StorageConfig struct {
	BaseURL    string `envconfig:"LAHINCH_SUPABASE_URL"`
	ServiceKey string `envconfig:"LAHINCH_SUPABASE_SERVICE_KEY"`

	ArtistImagesBucket    string `envconfig:"LAHINCH_BUCKET_ARTIST_IMAGES" default:"artist-images"`
	ArtworkImagesBucket   string `envconfig:"LAHINCH_BUCKET_ARTWORK_IMAGES" default:"artwork-images"`
	MediaFilesBucket      string `envconfig:"LAHINCH_BUCKET_MEDIA_FILES" default:"premium-media-files"`
	MediaThumbnailsBucket string `envconfig:"LAHINCH_BUCKET_MEDIA_THUMBNAILS" default:"premium-media-thumbnails"`
}

type RateLimitConfig struct {
	PaymentWindow  time.Duration `envconfig:"LAHINCH_RATE_LIMIT_PAYMENT_WINDOW" default:"1m"`
	PaymentIPLimit int           `envconfig:"LAHINCH_RATE_LIMIT_PAYMENT_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LAHINCH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("LAHINCH_DB_DSN is required for the sqlite driver")
	}

	missing := []string{}
	for envName, value := range map[string]string{
		"LAHINCH_DB_HOST": db.Host,
		"LAHINCH_DB_USER": db.User,
		"LAHINCH_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, envName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either LAHINCH_DB_DSN or %s are required", strings.Join(missing, ", "))
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
