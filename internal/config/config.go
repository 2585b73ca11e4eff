package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is missing")

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"auth-api"`
	JWTTTL          time.Duration `env:"JWT_TTL" envDefault:"2m"`
	JWTLeeway       time.Duration `env:"JWT_LEEWAY" envDefault:"5s"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"12"`
	MigrateOnStart  bool          `env:"MIGRATE_ON_START" envDefault:"true"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza configuraciones con las que el servicio no puede arrancar.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.JWTLeeway < 0 {
		return errors.New("JWT_LEEWAY must not be negative")
	}
	return nil
}
