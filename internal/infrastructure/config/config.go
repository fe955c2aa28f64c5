package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	BaseURL  string `env:"BASE_URL, default=http://localhost:8080"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
	SMS   SMSConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	VerificationTTL time.Duration `env:"VERIFICATION_TTL, default=15m"`
	ResetTTL        time.Duration `env:"RESET_TTL,        default=30m"`
	ResendLimit     int64         `env:"RESEND_LIMIT,     default=3"`
	ResendWindow    time.Duration `env:"RESEND_WINDOW,    default=1h"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=trekha_identity"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	From     string `env:"SMTP_FROM, default=no-reply@trekha.app"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

type SMSConfig struct {
	EndpointURL string `env:"SMS_ENDPOINT_URL"`
	APIKey      string `env:"SMS_API_KEY"`
	From        string `env:"SMS_FROM"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
