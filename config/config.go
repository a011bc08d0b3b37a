package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port               string        `env:"PORT" envDefault:"3000"`
	Env                string        `env:"APP_ENV" envDefault:"development"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:8080"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// ClientQueueSize bounds the outbound frames buffered per realtime client.
	ClientQueueSize int `env:"CLIENT_QUEUE_SIZE" envDefault:"32"`

	// DefaultRooms are created on startup so clients have somewhere to join.
	DefaultRooms []string `env:"DEFAULT_ROOMS" envSeparator:"," envDefault:"Lobby"`

	// AccessLog enables request-reply access logging on stdout.
	AccessLog bool `env:"ACCESS_LOG" envDefault:"false"`
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.ClientQueueSize <= 0 {
		return fmt.Errorf("CLIENT_QUEUE_SIZE must be positive, got %d", c.ClientQueueSize)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}

	rooms := make([]string, 0, len(c.DefaultRooms))
	for _, name := range c.DefaultRooms {
		if name = strings.TrimSpace(name); name != "" {
			rooms = append(rooms, name)
		}
	}
	c.DefaultRooms = rooms
	return nil
}
