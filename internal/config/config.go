// Package config loads the storefront configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	APIBaseURL    string `yaml:"apiBaseURL"`
	HTTPTimeout   string `yaml:"httpTimeout"`
	LogLevel      string `yaml:"logLevel"`
	LocalStore    string `yaml:"localStore"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	PostgresDSN   string `yaml:"postgresDSN"`
	PrefetchDepth int    `yaml:"prefetchDepth"`
}

// Load reads config from path (defaults to config.yaml) and applies
// STOREFRONT_* environment overrides.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("STOREFRONT_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_HTTP_TIMEOUT"); v != "" {
		cfg.HTTPTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_LOCAL_STORE"); v != "" {
		cfg.LocalStore = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("STOREFRONT_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("STOREFRONT_PREFETCH_DEPTH"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.PrefetchDepth = n
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.APIBaseURL == "" {
		return errors.New("config: apiBaseURL is required (set in config.yaml or STOREFRONT_API_BASE_URL)")
	}
	switch cfg.LocalStore {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required for the redis local store")
		}
	case "postgres":
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return errors.New("config: postgresDSN is required for the postgres local store")
		}
	default:
		return fmt.Errorf("config: unknown localStore %q (memory, redis or postgres)", cfg.LocalStore)
	}
	if cfg.PrefetchDepth < 0 {
		return errors.New("config: prefetchDepth must be >= 0")
	}
	if _, err := ParseHTTPTimeout(cfg.HTTPTimeout); err != nil {
		return err
	}
	return nil
}

// ParseHTTPTimeout parses the optional HTTP timeout duration string.
func ParseHTTPTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid httpTimeout duration: %w", err)
	}
	return dur, nil
}
