package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains service configuration parameters.
type Config struct {
	Server   Server   `envPrefix:"SERVER_"`
	Database Database `envPrefix:"DATABASE_"`
	Cache    Cache    `envPrefix:"CACHE_"`
	Auth     Auth     `envPrefix:"AUTH_"`
}

// Server contains HTTP server parameters.
type Server struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// Database contains database connection parameters.
type Database struct {
	Driver        string `env:"DRIVER" envDefault:"sqlite3"`
	DSN           string `env:"DSN" envDefault:"./task_service.db?_foreign_keys=on"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"./database/migrations"`
}

// Cache contains cache backend parameters. The default in-memory backend
// needs no external service; set CACHE_TYPE=redis to share state between
// instances.
type Cache struct {
	Type          string `env:"TYPE" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Auth contains password hashing parameters.
type Auth struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
