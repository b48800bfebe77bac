package server

import (
	"fmt"
	"strings"
)

// Config is the "server" section of the kektorgraph configuration file.
type Config struct {
	HTTPAddr  string `yaml:"http_addr"`
	AuthToken string `yaml:"auth_token"`

	// MaxBodyBytes limits request bodies, imports included.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text or json
	// LogFile, when set, receives the logs through a rotating writer
	// instead of stderr.
	LogFile       string `yaml:"log_file"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":9191",
		MaxBodyBytes:  32 << 20,
		LogLevel:      "info",
		LogFormat:     "text",
		LogMaxSizeMB:  100,
		LogMaxAgeDays: 28,
	}
}

// Validate checks the values that YAML decoding cannot.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxAgeDays < 0 {
		return fmt.Errorf("log limits must not be negative")
	}
	return nil
}
