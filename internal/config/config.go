// Package config loads turing.yaml, the project-level settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the project directory when no explicit path is given.
const FileName = "turing.yaml"

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var ErrUnknownDriver = errors.New("unknown store driver")

type Config struct {
	StepDelay     time.Duration `mapstructure:"step_delay"`
	DefaultSymbol string        `mapstructure:"default_symbol"`
	LogLevel      string        `mapstructure:"log_level"`
	MaxSteps      int           `mapstructure:"max_steps"`
	Store         StoreConfig   `mapstructure:"store"`
	HTTP          HTTPConfig    `mapstructure:"http"`
}

type StoreConfig struct {
	Driver     string      `mapstructure:"driver"`
	Dir        string      `mapstructure:"dir"`
	SQLitePath string      `mapstructure:"sqlite_path"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		StepDelay:     time.Second,
		DefaultSymbol: domain.DefaultSymbol,
		LogLevel:      "info",
		MaxSteps:      10000,
		Store: StoreConfig{
			Driver:     DriverFile,
			Dir:        filepath.Join(".turing", "machines"),
			SQLitePath: filepath.Join(".turing", "machines.db"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "turing:machine:",
			},
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the file at path. A missing file yields Default().
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML from r on top of Default().
// Keys absent from the document keep their default values.
func Decode(r io.Reader) (Config, error) {
	raw := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that the decoder cannot.
func (c Config) Validate() error {
	if c.StepDelay < 0 {
		return fmt.Errorf("step_delay must not be negative, got %s", c.StepDelay)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if err := domain.ValidateSymbol(c.DefaultSymbol); err != nil {
		return fmt.Errorf("default_symbol: %w", err)
	}
	switch c.Store.Driver {
	case DriverFile, DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver)
	}
	return nil
}

// Resolve makes relative store paths relative to dir.
func (c Config) Resolve(dir string) Config {
	if dir == "" {
		return c
	}
	if !filepath.IsAbs(c.Store.Dir) {
		c.Store.Dir = filepath.Join(dir, c.Store.Dir)
	}
	if !filepath.IsAbs(c.Store.SQLitePath) {
		c.Store.SQLitePath = filepath.Join(dir, c.Store.SQLitePath)
	}
	return c
}
