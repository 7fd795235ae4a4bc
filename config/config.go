package config

import (
	"os"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Gateway  GatewayConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// GatewayConfig for the external payment gateway. SharedSecret signs the
// (intent id, payment id) pair the client relays back after paying;
// WebhookSecret signs server-to-server event bodies.
type GatewayConfig struct {
	BaseURL        string
	KeyID          string
	KeySecret      string
	SharedSecret   string
	WebhookSecret  string
	RequestTimeout time.Duration
}

// CheckoutConfig holds pricing rules. All amounts are in the smallest
// currency unit (paise).
type CheckoutConfig struct {
	Currency             string
	FreeShippingMinCents int64 // subtotal above this ships free
	ShippingFeeCents     int64
	DiscountMinCents     int64 // subtotal above this earns the discount
	DiscountPercent      int64
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8088"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DB_DSN", "farmstore:farmstore@tcp(localhost:3306)/farmstore?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  time.Hour,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "farmstore",
		},
		Gateway: GatewayConfig{
			BaseURL:        envOr("GATEWAY_BASE_URL", "https://api.razorpay.com"),
			KeyID:          envOr("GATEWAY_KEY_ID", "rzp_test_RqZdzEVBQPglcI"),
			KeySecret:      envOr("GATEWAY_KEY_SECRET", ""),
			SharedSecret:   envOr("GATEWAY_SHARED_SECRET", "change-me-gateway"),
			WebhookSecret:  envOr("GATEWAY_WEBHOOK_SECRET", ""),
			RequestTimeout: 30 * time.Second,
		},
		Checkout: CheckoutConfig{
			Currency:             "INR",
			FreeShippingMinCents: 49900,
			ShippingFeeCents:     4000,
			DiscountMinCents:     99900,
			DiscountPercent:      10,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
