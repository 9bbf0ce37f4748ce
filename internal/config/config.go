package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MySQLHost     string `env:"MYSQL_HOST" envDefault:"localhost"`
	MySQLPort     string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLUser     string `env:"MYSQL_USER" envDefault:"root"`
	MySQLPassword string `env:"MYSQL_PASSWORD"`
	MySQLDatabase string `env:"MYSQL_DATABASE" envDefault:"commissions"`

	// Empty RedisAddr keeps the rate gate and rate cache in process memory.
	RedisAddr string `env:"REDIS_ADDR"`

	// Empty RabbitMQURL disables lifecycle events.
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"orders"`

	ExchangeRateURL string        `env:"EXCHANGE_RATE_URL" envDefault:"https://open.er-api.com/v6"`
	ExchangeRateTTL time.Duration `env:"EXCHANGE_RATE_TTL" envDefault:"1h"`
	FallbackUSDKES  string        `env:"FALLBACK_USD_KES" envDefault:"129"`

	PayPalBaseURL  string `env:"PAYPAL_BASE_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	PayPalClientID string `env:"PAYPAL_CLIENT_ID"`
	PayPalSecret   string `env:"PAYPAL_SECRET"`

	PaystackBaseURL   string `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	PaystackSecretKey string `env:"PAYSTACK_SECRET_KEY"`

	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
	PublicBaseURL   string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"poems@localhost"`

	AdminJWTSecret   string `env:"ADMIN_JWT_SECRET,notEmpty"`
	AdminNotifyEmail string `env:"ADMIN_NOTIFY_EMAIL"`

	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"24h"`
	RateLimitQuota  int           `env:"RATE_LIMIT_QUOTA" envDefault:"5"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if _, err := cfg.FallbackRate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) FallbackRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.FallbackUSDKES)
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("FALLBACK_USD_KES must be a positive number, got %q", c.FallbackUSDKES)
	}
	return rate, nil
}
