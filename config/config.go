// Package config loads Straddle client settings from an optional YAML file and
// STRADDLE_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	straddle "github.com/reoring/straddle-go"
)

const (
	defaultEnvironment = "sandbox"
	defaultLogLevel    = "info"
	defaultMaxRetries  = 2
	defaultTimeout     = 60 * time.Second
)

// Config holds the settings a client or the CLI is built from.
type Config struct {
	APIKey              string        `yaml:"api_key"`
	Environment         string        `yaml:"environment"`
	BaseURL             string        `yaml:"base_url"`
	Timeout             time.Duration `yaml:"timeout"`
	MaxRetries          int           `yaml:"max_retries"`
	LogLevel            string        `yaml:"log_level"`
	ValidateResponses   bool          `yaml:"validate_responses"`
	StrictDuplicateKeys bool          `yaml:"strict_duplicate_keys"`
}

// Load reads path when it is not empty, then applies environment overrides.
// A missing file is an error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Config{
		Environment: defaultEnvironment,
		LogLevel:    defaultLogLevel,
		MaxRetries:  defaultMaxRetries,
		Timeout:     defaultTimeout,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.APIKey = envOrDefault("STRADDLE_API_KEY", cfg.APIKey)
	cfg.Environment = strings.ToLower(strings.TrimSpace(envOrDefault("STRADDLE_ENVIRONMENT", cfg.Environment)))
	cfg.BaseURL = envOrDefault("STRADDLE_BASE_URL", cfg.BaseURL)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(envOrDefault("STRADDLE_LOG_LEVEL", cfg.LogLevel)))
	cfg.ValidateResponses = envBool("STRADDLE_VALIDATE_RESPONSES", cfg.ValidateResponses)
	cfg.StrictDuplicateKeys = envBool("STRADDLE_STRICT_DUPLICATE_KEYS", cfg.StrictDuplicateKeys)

	var err error
	if cfg.Timeout, err = envDuration("STRADDLE_TIMEOUT", cfg.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.MaxRetries, err = envInt("STRADDLE_MAX_RETRIES", cfg.MaxRetries); err != nil {
		return Config{}, err
	}

	switch straddle.Environment(cfg.Environment) {
	case straddle.EnvironmentSandbox, straddle.EnvironmentProduction:
	default:
		return Config{}, fmt.Errorf("invalid STRADDLE_ENVIRONMENT %q (allowed: %s|%s)",
			cfg.Environment, straddle.EnvironmentSandbox, straddle.EnvironmentProduction)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("invalid STRADDLE_LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	return cfg, nil
}

// ErrNoAPIKey is returned by Client when no API key was configured.
var ErrNoAPIKey = errors.New("STRADDLE_API_KEY is not set")

// ClientConfig maps the settings onto straddle.Config.
func (c Config) ClientConfig(logger *zerolog.Logger) straddle.Config {
	retries := c.MaxRetries
	if retries == 0 {
		retries = -1
	}
	return straddle.Config{
		APIKey:              c.APIKey,
		Environment:         straddle.Environment(c.Environment),
		BaseURL:             c.BaseURL,
		Timeout:             c.Timeout,
		MaxRetries:          retries,
		ValidateResponses:   c.ValidateResponses,
		StrictDuplicateKeys: c.StrictDuplicateKeys,
		Logger:              logger,
	}
}

// Client builds a client from the settings.
func (c Config) Client(logger *zerolog.Logger) (*straddle.Client, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	return straddle.NewClient(c.ClientConfig(logger))
}

// Logger returns a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		switch strings.ToLower(value) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		default:
			return defaultVal
		}
	}
	return parsed
}

func envInt(key string, defaultVal int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// envDuration accepts Go durations ("30s") and plain seconds ("30").
func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
