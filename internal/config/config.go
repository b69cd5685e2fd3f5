// Package config loads pricelens settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvConfigPath = "PRICELENS_CONFIG"
	EnvDataPath   = "PRICELENS_DATA_PATH"
	EnvDataURL    = "PRICELENS_DATA_URL"
	EnvDataRoot   = "PRICELENS_DATA_ROOT"
	EnvLogLevel   = "PRICELENS_LOG_LEVEL"
	EnvLogFormat  = "PRICELENS_LOG_FORMAT"
	EnvLogFile    = "PRICELENS_LOG_FILE"
	EnvServerAddr = "PRICELENS_SERVER_ADDR"
)

// Defaults.
const (
	DefaultDataPath     = "/data/model_prices.csv"
	DefaultDataRoot     = "."
	DefaultOutputFormat = "table"
	DefaultPrecision    = 2
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultServerAddr   = ":8080"
	DefaultRateLimit    = 10
	DefaultRateBurst    = 20
	configDirName       = ".pricelens"
	configFileName      = "config.yaml"
	logFileName         = "pricelens.log"
	configFilePerm      = 0o600
	configDirPerm       = 0o750
	outputTypeFile      = "file"
	outputTypeStderr    = "stderr"
)

// Config is the complete pricelens configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`

	// path is the file this config was loaded from, if any.
	path string
}

// DataConfig locates the pricing CSV.
type DataConfig struct {
	// Path is the resource path, e.g. /data/model_prices.csv.
	Path string `yaml:"path"`
	// BaseURL, when set, makes the loader fetch Path over HTTP from this origin.
	BaseURL string `yaml:"base_url"`
	// Root is the local directory Path is resolved against when BaseURL is empty.
	Root string `yaml:"root"`
}

// OutputConfig controls non-interactive rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ServerConfig controls `pricelens serve`.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	RateLimit int    `yaml:"rate_limit"`
	RateBurst int    `yaml:"rate_burst"`
}

// Default returns a Config with built-in defaults only.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Path: DefaultDataPath,
			Root: DefaultDataRoot,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			File:   filepath.Join(configDir(), "logs", logFileName),
		},
		Server: ServerConfig{
			Addr:      DefaultServerAddr,
			RateLimit: DefaultRateLimit,
			RateBurst: DefaultRateBurst,
		},
	}
}

// New loads the configuration from the default location.
// Problems reading the file are ignored and defaults are used.
func New() *Config {
	cfg, err := Load("")
	if err != nil {
		cfg = Default()
		cfg.applyEnv()
	}
	return cfg
}

// Load builds a Config from defaults, the YAML file at path (or the default
// config file when path is empty) and environment overrides. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err = ShallowMergeYAML(cfg, path); err != nil {
			return nil, err
		}
		cfg.path = path
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Save writes the config as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, data, configFilePerm); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	switch c.Output.DefaultFormat {
	case "table", "json", "ndjson", "chart":
	default:
		return fmt.Errorf("output.default_format: unsupported format %q", c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 {
		return fmt.Errorf("output.precision must be >= 0, got %d", c.Output.Precision)
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return errors.New("server.rate_limit and server.rate_burst must be >= 0")
	}
	if strings.TrimSpace(c.Data.Path) == "" {
		return errors.New("data.path must not be empty")
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataPath); v != "" {
		c.Data.Path = v
	}
	if v := os.Getenv(EnvDataURL); v != "" {
		c.Data.BaseURL = v
	}
	if v := os.Getenv(EnvDataRoot); v != "" {
		c.Data.Root = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}

// DefaultPath returns ~/.pricelens/config.yaml.
func DefaultPath() string {
	return filepath.Join(configDir(), configFileName)
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return configDirName
	}
	return filepath.Join(home, configDirName)
}
