package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"worksearch/internal/catalogue"
	"worksearch/internal/components/telemetry"
	"worksearch/lib/configutil"

	"github.com/joho/godotenv"
)

// FileName is looked up in the working directory and each of its parents.
const FileName = "worksearch.json5"

const DefaultAddr = ":8080"

const (
	envBaseUrl        = "WORKSEARCH_BASE_URL"
	envTimeoutSeconds = "WORKSEARCH_TIMEOUT_SECONDS"
	envSentryDsn      = "SENTRY_DSN"
	envAddr           = "WORKSEARCH_ADDR"
)

type ServeConfig struct {
	Addr string `json:"addr"`
}

type Config struct {
	BaseURL        string               `json:"base_url"`
	TimeoutSeconds int                  `json:"timeout_seconds"`
	UserAgent      string               `json:"user_agent"`
	SentryDsn      string               `json:"sentry_dsn"`
	Otlp           telemetry.OtlpConfig `json:"otlp"`
	Serve          ServeConfig          `json:"serve"`
}

func Default() Config {
	return Config{
		BaseURL:        catalogue.DefaultBaseURL,
		TimeoutSeconds: int(catalogue.DefaultTimeout / time.Second),
		UserAgent:      catalogue.DefaultUserAgent,
		Serve:          ServeConfig{Addr: DefaultAddr},
	}
}

// Load reads the config file if there is one, then applies the environment
// (including a .env file in the working directory) on top of it.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := configutil.ReadRecursively[Config](FileName)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}

	err = cfg.applyEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envBaseUrl); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(envTimeoutSeconds); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTimeoutSeconds, err)
		}
		c.TimeoutSeconds = seconds
	}
	if v := os.Getenv(envSentryDsn); v != "" {
		c.SentryDsn = v
	}
	if v := os.Getenv(envAddr); v != "" {
		c.Serve.Addr = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	defaults := Default()
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaults.Serve.Addr
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) Telemetry() telemetry.Config {
	return telemetry.Config{Otlp: c.Otlp}
}

func (c Config) ClientOptions(tel telemetry.API) catalogue.ClientOptions {
	return catalogue.ClientOptions{
		BaseURL:   c.BaseURL,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout(),
		Telemetry: tel,
	}
}
