// Package config loads the command line configuration from formspec.yaml,
// FORMSPEC_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"formspec/builder"
	"formspec/internal/export"
	"formspec/internal/logging"
)

// EnvPrefix prefixes environment variables, e.g. FORMSPEC_LOG_LEVEL.
const EnvPrefix = "FORMSPEC"

// Keys.
const (
	KeyPreserveDefinedOrder = "preserve_defined_order"
	KeyTagKey               = "tag_key"
	KeyFormat               = "format"
	KeyDocuments            = "documents"
	KeyLogLevel             = "log.level"
	KeyLogDevelopment       = "log.development"
)

// Config is the command line configuration.
type Config struct {
	Builder   builder.Config `mapstructure:",squash"`
	Format    string         `mapstructure:"format"`
	Documents []string       `mapstructure:"documents"`
	Log       LogConfig      `mapstructure:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// New returns a viper instance with defaults that reads formspec.yaml from
// dir, or file when set.
func New(dir, file string) *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyPreserveDefinedOrder, false)
	v.SetDefault(KeyTagKey, "")
	v.SetDefault(KeyFormat, string(export.FormatYAML))
	v.SetDefault(KeyDocuments, []string{})
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogDevelopment, false)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("formspec")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration file if present and decodes v.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if _, err := export.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if strings.ContainsAny(cfg.Builder.TagKey, " :\"`") {
		return fmt.Errorf("tag_key %q is not a valid struct tag key", cfg.Builder.TagKey)
	}

	return nil
}
