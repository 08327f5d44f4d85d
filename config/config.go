// Package config loads runtime settings from an optional YAML file, a .env
// file and CATALOGPIPE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CATALOGPIPE"

// Config is the full runtime configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Output    OutputConfig    `mapstructure:"output"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
	File   string `mapstructure:"file"` // rotated with lumberjack when set
}

// BatchConfig tunes the batch session.
type BatchConfig struct {
	Workers       int           `mapstructure:"workers" validate:"min=1"`
	CommitTimeout time.Duration `mapstructure:"commit_timeout" validate:"gt=0"`
}

// InventoryConfig selects the persistence collaborator.
type InventoryConfig struct {
	Type     string        `mapstructure:"type" validate:"oneof=http sqlite none"`
	Endpoint string        `mapstructure:"endpoint" validate:"required_if=Type http"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	DSN      string        `mapstructure:"dsn" validate:"required_if=Type sqlite"`
}

// OutputConfig controls review sheets.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json markdown pdf html"`
}

// CacheConfig controls the in-memory record cache of the orchestrator.
type CacheConfig struct {
	Enable bool          `mapstructure:"enable"`
	TTL    time.Duration `mapstructure:"ttl"`
}

var validate = validator.New()

// Load reads configuration. An empty path searches for catalogpipe.yaml in
// the working directory and $HOME/.catalogpipe; a missing file is fine
// there. An explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("catalogpipe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.catalogpipe")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Inventory.Endpoint != "" {
		if err := validate.Var(c.Inventory.Endpoint, "url"); err != nil {
			return fmt.Errorf("invalid config: inventory.endpoint %q is not a URL", c.Inventory.Endpoint)
		}
	}
	return nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults sets every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.commit_timeout", "30s")

	v.SetDefault("inventory.type", "none")
	v.SetDefault("inventory.endpoint", "")
	v.SetDefault("inventory.token", "")
	v.SetDefault("inventory.timeout", "30s")
	v.SetDefault("inventory.dsn", "data/catalog.db")

	v.SetDefault("output.dir", "")
	v.SetDefault("output.format", "")

	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.ttl", "10m")
}
