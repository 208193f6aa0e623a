// Package config loads application configuration from an optional config
// file and QUIZSMITH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env           string `mapstructure:"env"`            // current environment (local, production)
	TemplateDir   string `mapstructure:"template_dir"`   // directory holding *.json template banks
	SeedSalt      string `mapstructure:"seed_salt"`      // salt mixed into derived rand seeds
	DecimalDigits int    `mapstructure:"decimal_digits"` // decimal fallback width for the formatter
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("template_dir", "templates")
	v.SetDefault("seed_salt", "")
	v.SetDefault("decimal_digits", 8)

	v.SetEnvPrefix("quizsmith")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}
