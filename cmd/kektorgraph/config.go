package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sanonone/kektorgraph/internal/server"
	"github.com/sanonone/kektorgraph/pkg/engine"
)

// Config is the layout of the configuration file:
//
//	engine:
//	  data_file: ./family.json
//	  aliases:
//	    parents: [{name: in, args: [parent]}]
//	server:
//	  http_addr: ":9191"
//	  log_format: json
type Config struct {
	Engine engine.Config `yaml:"engine"`
	Server server.Config `yaml:"server"`
}

func DefaultConfig() Config {
	return Config{
		Engine: engine.DefaultConfig(),
		Server: server.DefaultConfig(),
	}
}

// LoadConfig reads the configuration file at path over the defaults.
// An empty path returns the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig() // Start with defaults

	if path == "" {
		return cfg, nil
	}

	// 1. Open File
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	// 2. Setup Strict Decoder
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	// 3. Decode (an empty file keeps the defaults)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("YAML syntax error in config: %w", err)
	}

	return cfg, nil
}

// applyFlags overlays the command line on cfg and validates the result.
func applyFlags(cfg *Config) error {
	if dataFile != "" {
		cfg.Engine.DataFile = dataFile
	}
	if strictMode {
		cfg.Engine.Strict = true
	}
	if logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	if httpAddr != "" {
		cfg.Server.HTTPAddr = httpAddr
	}
	if authToken != "" {
		cfg.Server.AuthToken = authToken
	}

	if err := cfg.Engine.Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	return nil
}

// setup loads the configuration, installs the configured logger as the
// slog default and opens the engine. The returned closer releases the log
// file.
func setup() (Config, *engine.Engine, io.Closer, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return cfg, nil, nil, err
	}
	if err := applyFlags(&cfg); err != nil {
		return cfg, nil, nil, err
	}

	logger, closer, err := server.NewLogger(cfg.Server)
	if err != nil {
		return cfg, nil, nil, err
	}
	slog.SetDefault(logger)

	opts := cfg.Engine.Options()
	opts.Logger = logger
	eng, err := engine.Open(opts)
	if err != nil {
		closer.Close()
		return cfg, nil, nil, err
	}
	return cfg, eng, closer, nil
}
