// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"go.uber.org/multierr"
)

const (
	BackendMystic    = "MYSTIC"
	BackendLifx      = "LIFX"
	BackendSimulated = "SIMULATED"
)

var backends = []string{BackendMystic, BackendLifx, BackendSimulated}

type Config struct {
	Backend  string `env:"LIGHT_BACKEND" envDefault:"MYSTIC"`
	SDKDir   string `env:"MYSTIC_SDK_DIR"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	LifxGroupName string        `env:"LIFX_GROUP_NAME" envDefault:"ARCADE"`
	LifxTimeout   time.Duration `env:"LIFX_TIMEOUT" envDefault:"5s"`

	CaptureInterval time.Duration `env:"CAPTURE_INTERVAL" envDefault:"80ms"`
	ColorAlgo       string        `env:"COLOR_ALGO" envDefault:"AVERAGE"`
	PixelGridSize   int           `env:"PIXEL_GRID_SIZE" envDefault:"5"`
	ScreenNumber    int           `env:"SCREEN_NUMBER" envDefault:"0"`
	SyncDevices     []string      `env:"SYNC_DEVICES" envSeparator:","`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	c.Backend = strings.ToUpper(strings.TrimSpace(c.Backend))
	c.ColorAlgo = strings.ToUpper(strings.TrimSpace(c.ColorAlgo))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(backends, c.Backend) {
		errs = append(errs, fmt.Errorf("LIGHT_BACKEND must be one of %v, got %q", backends, c.Backend))
	}
	if c.Backend == BackendLifx && c.LifxGroupName == "" {
		errs = append(errs, errors.New("LIFX_GROUP_NAME is required for the LIFX backend"))
	}
	if c.LifxTimeout <= 0 {
		errs = append(errs, fmt.Errorf("LIFX_TIMEOUT must be positive, got %s", c.LifxTimeout))
	}
	if c.CaptureInterval <= 0 {
		errs = append(errs, fmt.Errorf("CAPTURE_INTERVAL must be positive, got %s", c.CaptureInterval))
	}
	if c.PixelGridSize < 1 {
		errs = append(errs, fmt.Errorf("PIXEL_GRID_SIZE must be at least 1, got %d", c.PixelGridSize))
	}
	if c.ScreenNumber < 0 {
		errs = append(errs, fmt.Errorf("SCREEN_NUMBER must not be negative, got %d", c.ScreenNumber))
	}
	return multierr.Combine(errs...)
}
