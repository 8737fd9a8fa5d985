// Package config loads the tool's YAML configuration and watches it for
// changes. Only the log level is applied live; everything else requires a
// restart.
package config

import (
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

// Config is the root configuration document.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or console.
	Format string `yaml:"format"`
}

// DatabaseConfig describes the database to open.
type DatabaseConfig struct {
	// Path is a file path, ":memory:", or an md:<name> MotherDuck name.
	Path string `yaml:"path"`

	ReadOnly bool `yaml:"read_only"`

	// Options are engine options; core ones travel in the DSN, the rest are
	// applied with SET after connecting.
	Options map[string]any `yaml:"options"`

	// Extensions to LOAD right after connecting.
	Extensions []string `yaml:"extensions"`

	// UserAgent is appended to the driver's user-agent string.
	UserAgent string `yaml:"user_agent"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig points at the object-storage staging area. An empty
// Endpoint disables staging.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Options: map[string]any{},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is an
// error; use Default directly when no file is wanted.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "reading config file "+path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "parsing config file "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the tool cannot run with.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown log format %q", c.Log.Format)
	}
	if c.Database.Path == "" {
		return errs.New(errs.ErrKindInvalidInput, "database.path must not be empty")
	}
	if c.Storage.Endpoint != "" && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return errs.New(errs.ErrKindInvalidInput, "storage credentials required when an endpoint is set")
	}
	return nil
}
