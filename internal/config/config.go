// Package config loads the daemon configuration using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/melrosenetworks/S1-SEE/internal/log"
)

// Config is the top-level configuration shared by both daemons. Maps
// to the `s1see:` root key in YAML; env vars use the S1SEE_ prefix
// (e.g. S1SEE_SPOOLER_LISTEN).
type Config struct {
	Spooler   SpoolerConfig   `mapstructure:"spooler"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Log       log.Config      `mapstructure:"log"`
}

// SpoolerConfig configures the ingest daemon.
type SpoolerConfig struct {
	Listen        string `mapstructure:"listen"`
	SpoolDir      string `mapstructure:"spool_dir"`
	Partitions    int    `mapstructure:"partitions"`
	FsyncOnAppend bool   `mapstructure:"fsync_on_append"`
}

// ProcessorConfig configures the pipeline daemon.
type ProcessorConfig struct {
	SpoolDir      string        `mapstructure:"spool_dir"`
	Partitions    int           `mapstructure:"partitions"`
	ConsumerGroup string        `mapstructure:"consumer_group"`
	Ruleset       string        `mapstructure:"ruleset"`
	Output        string        `mapstructure:"output"`
	Continuous    bool          `mapstructure:"continuous"`
	BatchSize     int           `mapstructure:"batch_size"`
	ContextExpiry time.Duration `mapstructure:"context_expiry"`
}

// configRoot is the wrapper matching the YAML structure `s1see: ...`.
type configRoot struct {
	S1SEE Config `mapstructure:"s1see"`
}

// Load builds the configuration from defaults, the optional YAML file
// at path, and environment overrides, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The `s1see.` key prefix maps to S1SEE_ in env vars via the key
	// replacer (key "s1see.spooler.listen" -> env "S1SEE_SPOOLER_LISTEN").
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.S1SEE

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Spooler defaults
	v.SetDefault("s1see.spooler.listen", "0.0.0.0:50051")
	v.SetDefault("s1see.spooler.spool_dir", "spool_data")
	v.SetDefault("s1see.spooler.partitions", 1)
	v.SetDefault("s1see.spooler.fsync_on_append", true)

	// Processor defaults
	v.SetDefault("s1see.processor.spool_dir", "spool_data")
	v.SetDefault("s1see.processor.partitions", 1)
	v.SetDefault("s1see.processor.consumer_group", "processor")
	v.SetDefault("s1see.processor.ruleset", "config/rulesets/mobility.yaml")
	v.SetDefault("s1see.processor.output", "events.jsonl")
	v.SetDefault("s1see.processor.continuous", true)
	v.SetDefault("s1see.processor.batch_size", 100)
	v.SetDefault("s1see.processor.context_expiry", "5m")

	// Log defaults
	v.SetDefault("s1see.log.level", "info")
	v.SetDefault("s1see.log.format", "prefixed")
}

// Validate checks field values that would otherwise fail deep inside a
// component at runtime.
func (cfg *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be trace/debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Spooler.Partitions <= 0 {
		return fmt.Errorf("spooler.partitions must be positive, got %d", cfg.Spooler.Partitions)
	}
	if cfg.Processor.Partitions <= 0 {
		return fmt.Errorf("processor.partitions must be positive, got %d", cfg.Processor.Partitions)
	}
	if cfg.Processor.BatchSize <= 0 {
		return fmt.Errorf("processor.batch_size must be positive, got %d", cfg.Processor.BatchSize)
	}
	return nil
}
