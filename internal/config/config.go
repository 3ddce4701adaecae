package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/pokeapi-artwork-go/internal/constants"
)

type Config struct {
	PokeAPI PokeAPIConfig
	Artwork ArtworkConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

type PokeAPIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	UserAgent     string
	RatePerSecond float64
	RateBurst     int
}

type ArtworkConfig struct {
	Directory string
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PokeAPI: PokeAPIConfig{
			BaseURL:       ensureTrailingSlash(getEnv("POKEAPI_BASE_URL", constants.APIConfig.PokeAPIBaseURL)),
			Timeout:       time.Duration(getEnvInt("POKEAPI_TIMEOUT_SECONDS", int(constants.APIConfig.PokeAPITimeout/time.Second))) * time.Second,
			UserAgent:     getEnv("POKEAPI_USER_AGENT", constants.APIConfig.UserAgent),
			RatePerSecond: getEnvFloat("POKEAPI_RATE_PER_SECOND", constants.APIConfig.RatePerSecond),
			RateBurst:     getEnvInt("POKEAPI_RATE_BURST", constants.APIConfig.RateBurst),
		},
		Artwork: ArtworkConfig{
			Directory: getEnv("ARTWORK_DIR", constants.FileConfig.ArtworkDir),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", false),
			TTL:     time.Duration(getEnvInt("CACHE_TTL_MINUTES", int(constants.CacheTTL.PokemonInfo/time.Minute))) * time.Minute,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 14),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PokeAPI.BaseURL == "" {
		return fmt.Errorf("POKEAPI_BASE_URL is required")
	}
	if u, err := url.Parse(c.PokeAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("POKEAPI_BASE_URL must be an absolute URL: %q", c.PokeAPI.BaseURL)
	}
	if c.PokeAPI.Timeout <= 0 {
		return fmt.Errorf("POKEAPI_TIMEOUT_SECONDS must be positive")
	}
	if c.PokeAPI.RatePerSecond < 0 {
		return fmt.Errorf("POKEAPI_RATE_PER_SECOND must not be negative")
	}
	if c.PokeAPI.RatePerSecond > 0 && c.PokeAPI.RateBurst < 1 {
		return fmt.Errorf("POKEAPI_RATE_BURST must be at least 1")
	}
	if c.Artwork.Directory == "" {
		return fmt.Errorf("ARTWORK_DIR is required")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL_MINUTES must be positive when caching is enabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
