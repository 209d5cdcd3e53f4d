package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Addr      string
	ServerURL string

	DefaultMinutes int
	MinMinutes     int
	MaxMinutes     int
	TickInterval   time.Duration

	MessagesDir string
	StartFEN    string
}

// Load reads an optional .env file (or ENV_FILE) and then the process environment.
func Load() (*AppConfig, error) {
	envFile := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function; every problem is reported at once.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{
		Addr:           "127.0.0.1:8080",
		ServerURL:      "http://127.0.0.1:8080",
		DefaultMinutes: 10,
		MinMinutes:     1,
		MaxMinutes:     60,
		TickInterval:   time.Second,
	}
	var errs error

	if v := strings.TrimSpace(getenv("HOTSEAT_ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(getenv("HOTSEAT_SERVER_URL")); v != "" {
		cfg.ServerURL = strings.TrimRight(v, "/")
	}
	cfg.MessagesDir = strings.TrimSpace(getenv("HOTSEAT_MESSAGES_DIR"))
	cfg.StartFEN = strings.TrimSpace(getenv("HOTSEAT_START_FEN"))

	intVar := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	intVar("HOTSEAT_DEFAULT_MINUTES", &cfg.DefaultMinutes)
	intVar("HOTSEAT_MIN_MINUTES", &cfg.MinMinutes)
	intVar("HOTSEAT_MAX_MINUTES", &cfg.MaxMinutes)

	if v := strings.TrimSpace(getenv("HOTSEAT_TICK_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("HOTSEAT_TICK_INTERVAL: %w", err))
		} else {
			cfg.TickInterval = d
		}
	}

	if err := cfg.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs error
	if c.MinMinutes < 1 {
		errs = multierror.Append(errs, fmt.Errorf("HOTSEAT_MIN_MINUTES must be >= 1, got %d", c.MinMinutes))
	}
	if c.MaxMinutes < c.MinMinutes {
		errs = multierror.Append(errs, fmt.Errorf("HOTSEAT_MAX_MINUTES (%d) below HOTSEAT_MIN_MINUTES (%d)", c.MaxMinutes, c.MinMinutes))
	}
	if c.DefaultMinutes < c.MinMinutes || c.DefaultMinutes > c.MaxMinutes {
		errs = multierror.Append(errs, fmt.Errorf("HOTSEAT_DEFAULT_MINUTES (%d) outside [%d, %d]", c.DefaultMinutes, c.MinMinutes, c.MaxMinutes))
	}
	if c.TickInterval <= 0 {
		errs = multierror.Append(errs, errors.New("HOTSEAT_TICK_INTERVAL must be positive"))
	}
	if strings.TrimSpace(c.Addr) == "" {
		errs = multierror.Append(errs, errors.New("HOTSEAT_ADDR is required"))
	}
	return errs
}
