package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// MapboxConfig holds the upstream geocoding settings. The token is required
// only when the places search endpoint is actually hit, so Load does not
// reject an empty one.
type MapboxConfig struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
}

type Config struct {
	Repositories  RepositoriesConfig
	Mapbox        MapboxConfig
	ServerPort    string
	PlacesCacheTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "wayfarer"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Mapbox: MapboxConfig{
			AccessToken: getEnvOrDefault("MAPBOX_ACCESS_TOKEN", os.Getenv("MAPBOX_TOKEN")),
			BaseURL:     getEnvOrDefault("MAPBOX_BASE_URL", "https://api.mapbox.com"),
			Timeout:     10 * time.Second,
		},
		ServerPort:     getEnvOrDefault("SERVER_PORT", "5000"),
		PlacesCacheTTL: getEnvDurationOrDefault("PLACES_CACHE_TTL_SECONDS", 5*time.Minute),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
