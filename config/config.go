// Package config loads pqtool settings from defaults, an optional YAML file
// and PQTOOL_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// --- Configuration Structs ---

type HeadConfig struct {
	Records int `mapstructure:"records" yaml:"records"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

type Config struct {
	BatchSize      int64      `mapstructure:"batch_size" yaml:"batch_size"`
	MergeBatchSize int64      `mapstructure:"merge_batch_size" yaml:"merge_batch_size"`
	Quiet          bool       `mapstructure:"quiet" yaml:"quiet"`
	Head           HeadConfig `mapstructure:"head" yaml:"head"`
	Log            LogConfig  `mapstructure:"log" yaml:"log"`
}

const envPrefix = "PQTOOL"

// Defaults registers the default value of every key.
func Defaults(v *viper.Viper) {
	v.SetDefault("batch_size", 8192)
	v.SetDefault("merge_batch_size", 1024)
	v.SetDefault("quiet", false)
	v.SetDefault("head.records", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// --- Load Configuration ---

// Load reads the configuration. An empty path skips the file and uses
// defaults plus environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	Defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf(format, a...)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validate(c.BatchSize > 0, "batch_size must be positive, got %d", c.BatchSize); err != nil {
		return err
	}
	if err := validate(c.MergeBatchSize > 0, "merge_batch_size must be positive, got %d", c.MergeBatchSize); err != nil {
		return err
	}
	if err := c.Head.Validate(); err != nil {
		return fmt.Errorf("head configuration error: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log configuration error: %w", err)
	}
	return nil
}

func (hc *HeadConfig) Validate() error {
	return validate(hc.Records >= 0, "records must not be negative, got %d", hc.Records)
}

func (lc *LogConfig) Validate() error {
	switch strings.ToLower(lc.Level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %q", lc.Level)
}
