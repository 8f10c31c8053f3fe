package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service. All screening knobs have
// defaults so the pipeline runs with nothing but DATABASE_URL and JWT_SECRET set.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        string `env:"PORT" envDefault:"8080"`
	UploadsDir  string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`

	// AI scoring service
	AIBackendURL string        `env:"AI_BACKEND_URL" envDefault:"http://localhost:5000"`
	AITimeout    time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`

	// Screening queue worker
	ScreenInterval   time.Duration `env:"SCREEN_INTERVAL" envDefault:"6s"`
	ScreenMaxRetries int           `env:"SCREEN_MAX_RETRIES" envDefault:"3"`
	ScreenBaseDelay  time.Duration `env:"SCREEN_BASE_DELAY" envDefault:"1s"`
	ScreenMaxBackoff time.Duration `env:"SCREEN_MAX_BACKOFF" envDefault:"60s"`
}

// Load reads .env (when present) and parses the environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine; containers set real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
