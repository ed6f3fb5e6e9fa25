package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Pricing  PricingConfig
	Sweep    SweepConfig
	Payments PaymentsConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// Tokens are issued by the identity service; only the shared secret is needed to verify them.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

type RedisConfig struct {
	Addr         string        `envconfig:"REDIS_ADDR" default:""` // empty disables the unit cache
	Password     string        `envconfig:"REDIS_PASSWORD" default:""`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	UnitCacheTTL time.Duration `envconfig:"REDIS_UNIT_CACHE_TTL" default:"1m"`
}

type BookingConfig struct {
	PaymentWindow time.Duration `envconfig:"BOOKING_PAYMENT_WINDOW" default:"30m"`
	// confirm | check_in | none
	PaymentGate    string        `envconfig:"BOOKING_PAYMENT_GATE" default:"confirm"`
	StrictCheckIn  bool          `envconfig:"BOOKING_STRICT_CHECK_IN" default:"true"`
	IdempotencyTTL time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
}

type PricingConfig struct {
	CleaningFeePercent float64  `envconfig:"PRICING_CLEANING_FEE_PERCENT" default:"0"`
	ServiceFeePercent  float64  `envconfig:"PRICING_SERVICE_FEE_PERCENT" default:"10"`
	TaxPercent         float64  `envconfig:"PRICING_TAX_PERCENT" default:"8"`
	WeekendNights      []string `envconfig:"PRICING_WEEKEND_NIGHTS" default:"saturday"`
}

type SweepConfig struct {
	Enabled   bool          `envconfig:"EXPIRY_SWEEP_ENABLED" default:"true"`
	Schedule  string        `envconfig:"EXPIRY_SWEEP_SCHEDULE" default:"@every 1m"`
	BatchSize int           `envconfig:"EXPIRY_SWEEP_BATCH_SIZE" default:"100"`
	Timeout   time.Duration `envconfig:"EXPIRY_SWEEP_TIMEOUT" default:"2m"`
}

type PaymentsConfig struct {
	WebhookSecret string `envconfig:"PAYMENTS_WEBHOOK_SECRET" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Booking: BookingConfig{
			PaymentWindow:  30 * time.Minute,
			PaymentGate:    "confirm",
			StrictCheckIn:  true,
			IdempotencyTTL: 24 * time.Hour,
		},
		Pricing: PricingConfig{
			CleaningFeePercent: 0,
			ServiceFeePercent:  10,
			TaxPercent:         8,
			WeekendNights:      []string{"saturday"},
		},
		Sweep: SweepConfig{
			Enabled:   false, // tests drive the sweep directly
			Schedule:  "@every 1m",
			BatchSize: 100,
			Timeout:   time.Minute,
		},
		Payments: PaymentsConfig{
			WebhookSecret: "test-webhook-secret",
		},
	}
}
