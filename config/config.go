// Package config loads service settings from the environment and the scoring
// profile from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/scorer/content"
)

// Config holds the runtime settings of the scorer service
type Config struct {
	Port    string
	GinMode string
	DataDir string
	DevMode bool

	LogLevel  string
	LogFormat string

	ProfilePath string
	Profile     content.Profile

	RateLimitRPS   float64
	RateLimitBurst int

	CacheTTL             time.Duration
	CacheSize            int
	LinkCacheTTL         time.Duration
	LinkCacheSize        int
	LinkCheckConcurrency int
	FetchTimeout         time.Duration
}

// LoadEnv loads .env.development, falling back to .env. Missing files are
// fine; the process environment is used as is.
func LoadEnv() []string {
	for _, name := range []string{".env.development", ".env"} {
		if err := godotenv.Load(name); err == nil {
			return []string{name}
		}
	}
	return nil
}

// Load builds a Config from environment variables and the scoring profile
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8082"),
		GinMode:              getEnv("GIN_MODE", "release"),
		DataDir:              getEnv("DATA_DIR", "./data"),
		DevMode:              os.Getenv("DEV_MODE") == "true",
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		ProfilePath:          os.Getenv("SCORING_PROFILE"),
		RateLimitRPS:         2,
		RateLimitBurst:       5,
		CacheTTL:             30 * time.Minute,
		CacheSize:            1000,
		LinkCacheTTL:         10 * time.Minute,
		LinkCacheSize:        10000,
		LinkCheckConcurrency: 10,
		FetchTimeout:         15 * time.Second,
	}

	var err error
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = getInt("CACHE_SIZE", cfg.CacheSize); err != nil {
		return nil, err
	}
	if cfg.LinkCheckConcurrency, err = getInt("LINK_CHECK_CONCURRENCY", cfg.LinkCheckConcurrency); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", cfg.FetchTimeout); err != nil {
		return nil, err
	}

	if cfg.Profile, err = LoadProfile(cfg.ProfilePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadProfile reads a YAML scoring profile over the defaults. An empty path
// returns the default profile.
func LoadProfile(path string) (content.Profile, error) {
	profile := content.DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("failed to read scoring profile: %w", err)
	}

	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse scoring profile %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return profile, fmt.Errorf("scoring profile %s: %w", path, err)
	}
	return profile, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, errNotPositive)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, errNotPositive)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, errNotPositive)
	}
	return d, nil
}

var errNotPositive = errors.New("must be positive")
