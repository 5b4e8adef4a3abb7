package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/consensus-export/internal/api"
)

// SnapDateLayout is the accepted snap_date format.
const SnapDateLayout = "2006-01-02"

// Validate checks that all required fields are set and values are valid.
// It performs no network activity.
func (c *Config) Validate() error {
	if _, err := api.BaseURL(c.API.Mode); err != nil {
		return fmt.Errorf("api.mode: %w", err)
	}
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}
	if c.API.APISecret == "" {
		return errors.New("api.api_secret is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0, got %v", c.API.Timeout)
	}

	if c.Run.Client == "" {
		return errors.New("run.client is required")
	}
	if _, err := time.Parse(SnapDateLayout, c.Run.SnapDate); err != nil {
		return fmt.Errorf("run.snap_date must be YYYY-MM-DD, got %q", c.Run.SnapDate)
	}
	if err := validateList("run.snap_times", c.Run.SnapTimes); err != nil {
		return err
	}
	if err := validateList("run.asset_types", c.Run.AssetTypes); err != nil {
		return err
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// BaseURL returns the REST endpoint for this run: the override if set,
// otherwise the mode's fixed URL.
func (c *Config) BaseURL() (string, error) {
	base, err := api.BaseURL(c.API.Mode)
	if err != nil {
		return "", err
	}
	if c.API.BaseURL != "" {
		return c.API.BaseURL, nil
	}
	return base, nil
}

// SlogLevel returns the configured log level.
func (l LogConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(l.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", s)
	}
}

func validateList(field string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%s must not be empty", field)
	}
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s[%d] is blank", field, i)
		}
	}
	return nil
}
