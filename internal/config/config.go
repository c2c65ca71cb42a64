// Package config loads hfsx's operator-tunable defaults through Viper,
// following the teacher's internal/device.LoadDMGConfig pattern: a
// config file discovered on a fixed search path, environment overrides,
// and hard-coded defaults so a missing file is never an error.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the defaults the cmd/ flag parsers fall back to when an
// operator doesn't pass an explicit flag.
type Config struct {
	OutputFormat       string `mapstructure:"output_format"`
	Encoding           string `mapstructure:"encoding"`
	DiscoverMaxResults int    `mapstructure:"discover_max_results"`
	ExtractOverwrite   bool   `mapstructure:"extract_overwrite"`
}

// Load reads hfsx's configuration using Viper, searching the current
// directory, ./config, $HOME/.hfsx, and /etc/hfsx, in that order, and
// overlaying HFSX_-prefixed environment variables. A missing config
// file is not an error — the defaults set by SetDefault below form a
// complete, usable configuration on their own.
func Load() (*Config, error) {
	viper.SetConfigName("hfsx-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.hfsx")
	viper.AddConfigPath("/etc/hfsx")

	viper.SetDefault("output_format", "table")
	viper.SetDefault("encoding", "macroman")
	viper.SetDefault("discover_max_results", 1000)
	viper.SetDefault("extract_overwrite", false)

	viper.SetEnvPrefix("HFSX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
