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

	EnvDBDSN  = "SCENTKART_DB_DSN"
	EnvDBHost = "SCENTKART_DB_HOST"
	EnvDBUser = "SCENTKART_DB_USER"
	EnvDBName = "SCENTKART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Pricing      PricingConfig
	Checkout     CheckoutConfig
	Kafka        KafkaConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"SCENTKART_APP_ENV" required:"true"`
	Port         string `envconfig:"SCENTKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SCENTKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCENTKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SCENTKART_DB_DSN"`
	Driver string `envconfig:"SCENTKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCENTKART_DB_HOST"`
	LegacyPort     int    `envconfig:"SCENTKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCENTKART_DB_USER"`
	LegacyPassword string `envconfig:"SCENTKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCENTKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCENTKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCENTKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCENTKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCENTKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCENTKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCENTKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SCENTKART_REDIS_ADDR"`
	Password     string        `envconfig:"SCENTKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCENTKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCENTKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCENTKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCENTKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCENTKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCENTKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SCENTKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SCENTKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SCENTKART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PricingConfig carries the order-level pricing knobs. Defaults mirror the
// storefront policy: 18% GST, flat 50 shipping waived above 1000.
type PricingConfig struct {
	TaxPercent            float64 `envconfig:"SCENTKART_PRICING_TAX_PERCENT" default:"18"`
	ShippingFee           float64 `envconfig:"SCENTKART_PRICING_SHIPPING_FEE" default:"50"`
	FreeShippingThreshold float64 `envconfig:"SCENTKART_PRICING_FREE_SHIPPING_THRESHOLD" default:"1000"`
}

type CheckoutConfig struct {
	EstimatedDeliveryDays int           `envconfig:"SCENTKART_CHECKOUT_ESTIMATED_DELIVERY_DAYS" default:"5"`
	BuyNowSessionTTL      time.Duration `envconfig:"SCENTKART_CHECKOUT_BUY_NOW_SESSION_TTL" default:"30m"`
	StockRetryAttempts    int           `envconfig:"SCENTKART_CHECKOUT_STOCK_RETRY_ATTEMPTS" default:"5"`
}

type KafkaConfig struct {
	Brokers     []string `envconfig:"SCENTKART_KAFKA_BROKERS" default:"localhost:9092"`
	OrdersTopic string   `envconfig:"SCENTKART_KAFKA_ORDERS_TOPIC" default:"scentkart.order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SCENTKART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SCENTKART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SCENTKART_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SCENTKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SCENTKART_AUTO_MIGRATE" default:"false"`
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
