package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the catalog service reads from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	DB     DBConfig
	JWT    JWTConfig
	Upload UploadConfig

	CORSOrigin    string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	MetricsPrefix string `env:"METRICS_PREFIX" envDefault:"catalog"`
}

// DBConfig selects the driver and sizes the connection pool.
type DBConfig struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"mysql"`
	DSN             string        `env:"DB_DSN_PRIMARY" envDefault:"root:root@tcp(127.0.0.1:3306)/taptosell_catalog?parseTime=true&loc=UTC"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// insecureJWTSecret is the JWT_SECRET default. Only development may run with it.
const insecureJWTSecret = "change-me-in-production"

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", cfg.DB.Driver)
	}
	if !cfg.IsDevelopment() && (cfg.JWT.Secret == "" || cfg.JWT.Secret == insecureJWTSecret) {
		return nil, fmt.Errorf("JWT_SECRET must be set to a non-default value when APP_ENV=%s", cfg.AppEnv)
	}
	return &cfg, nil
}
