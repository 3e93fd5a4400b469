// Package config loads fbsql settings from a YAML file, an optional .env
// file and FBSQL_* environment variables, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDriver    = "FBSQL_DRIVER"
	EnvDSN       = "FBSQL_DSN"
	EnvTimeout   = "FBSQL_TIMEOUT"
	EnvModels    = "FBSQL_MODELS"
	EnvLogLevel  = "FBSQL_LOG_LEVEL"
	EnvLogFormat = "FBSQL_LOG_FORMAT"
)

type Config struct {
	Database Database `yaml:"database"`
	// Models is the directory holding CUE model definitions.
	Models string `yaml:"models"`
	Log    Log    `yaml:"log"`
}

type Database struct {
	Driver  string        `yaml:"driver"`
	DSN     string        `yaml:"dsn"`
	Timeout time.Duration `yaml:"timeout"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Database: Database{
			Driver:  "sqlite3",
			DSN:     "fbsql.db",
			Timeout: 30 * time.Second,
		},
		Models: "models",
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), envFiles and the process environment. With no envFiles
// a .env file in the working directory is used if present.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Database.Driver = cast.ToString(getOrReturnDefaultValue(EnvDriver, cfg.Database.Driver))
	cfg.Database.DSN = cast.ToString(getOrReturnDefaultValue(EnvDSN, cfg.Database.DSN))
	cfg.Models = cast.ToString(getOrReturnDefaultValue(EnvModels, cfg.Models))
	cfg.Log.Level = cast.ToString(getOrReturnDefaultValue(EnvLogLevel, cfg.Log.Level))
	cfg.Log.Format = cast.ToString(getOrReturnDefaultValue(EnvLogFormat, cfg.Log.Format))

	timeout, err := cast.ToDurationE(getOrReturnDefaultValue(EnvTimeout, cfg.Database.Timeout))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvTimeout, err)
	}
	cfg.Database.Timeout = timeout
	return nil
}

func getOrReturnDefaultValue(key string, defaultValue any) any {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultValue
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Driver) == "" {
		return errors.New("database.driver is required")
	}
	if c.Database.Timeout < 0 {
		return fmt.Errorf("database.timeout must not be negative, got %s", c.Database.Timeout)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		return fmt.Errorf("log.format %q: must be text or json", f)
	}
	return nil
}

func (l Log) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return lvl, nil
}

// Logger builds a slog.Logger writing to w per the log settings.
func (l Log) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch l.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log.format %q: must be text or json", l.Format)
	}
}
