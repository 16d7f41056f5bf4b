package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AllowedOrigin is the single cross-origin domain allowed to call the
	// API with credentials.
	AllowedOrigin string `env:"ALLOWED_ORIGIN, default=http://localhost:3000"`

	Session Sessioning
	Mongo   MongoConfig
	Redis   RedisConfig
	Stripe  StripeConfig
}

type Sessioning struct {
	// Secret signs the session cookie. No default: an empty signing key
	// must never reach production, so startup fails without it.
	Secret string `env:"SESSION_SECRET, required"`
	// TTL bounds both the cookie max-age and the server-side session
	// document lifetime.
	TTL time.Duration `env:"SESSION_TTL, default=336h"`
	// SecureCookies toggles the Secure flag on the session cookie; off by
	// default so local development over plain HTTP works.
	SecureCookies bool `env:"SECURE_COOKIES, default=false"`
	// SubscriptionCacheTTL bounds how stale a cached billing subscription
	// status may get before the provider is consulted again.
	SubscriptionCacheTTL time.Duration `env:"SUBSCRIPTION_CACHE_TTL, default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=helpdesk"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type StripeConfig struct {
	APIKey string `env:"STRIPE_API_KEY"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
