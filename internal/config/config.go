// Package config provides configuration management for the documentation mirror.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL           = errors.New("source.base_url is required")
	ErrMissingEntryPath         = errors.New("source.entry_path is required")
	ErrMissingOutputDir         = errors.New("output.dir is required")
	ErrMissingExtension         = errors.New("output.extension is required")
	ErrInvalidDelay             = errors.New("pacing.delay_ms must be non-negative")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidBufferSize        = errors.New("advanced.buffer_size_kb must be at least 1")
)

// Config represents the complete mirror configuration.
type Config struct {
	Mirror   MirrorConfig   `yaml:"mirror"`
	Features FeaturesConfig `yaml:"features"`
	Advanced AdvancedConfig `yaml:"advanced"`
}

// MirrorConfig contains the core mirroring settings.
type MirrorConfig struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Retry   RetryPolicy   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig identifies the remote documentation site.
type SourceConfig struct {
	BaseURL   string `yaml:"base_url"`
	EntryPath string `yaml:"entry_path"`
	UserAgent string `yaml:"user_agent"`
}

// OutputConfig defines where and how artifacts are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
}

// PacingConfig bounds the request rate against the remote source.
type PacingConfig struct {
	DelayMs int `yaml:"delay_ms"`
}

// RetryPolicy defines retry behavior for page and document fetches.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FeaturesConfig contains feature flags.
type FeaturesConfig struct {
	FormatTables bool `yaml:"format_tables"`
}

// AdvancedConfig contains advanced settings.
type AdvancedConfig struct {
	BufferSizeKb int `yaml:"buffer_size_kb"`
}

// Default returns the configuration used when no config file is provided.
func Default() *Config {
	return &Config{
		Mirror: MirrorConfig{
			Source: SourceConfig{
				BaseURL:   "https://developer.work.weixin.qq.com",
				EntryPath: "90195",
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			},
			Output: OutputConfig{
				Dir:       "docs",
				Extension: "mdx",
			},
			Pacing: PacingConfig{
				DelayMs: 1000,
			},
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
			Logging: LoggingConfig{
				Level: "info",
			},
		},
		Features: FeaturesConfig{
			FormatTables: false,
		},
		Advanced: AdvancedConfig{
			BufferSizeKb: 4096,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Mirror.Source.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.Mirror.Source.EntryPath == "" {
		return ErrMissingEntryPath
	}

	if c.Mirror.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if c.Mirror.Output.Extension == "" {
		return ErrMissingExtension
	}

	if c.Mirror.Pacing.DelayMs < 0 {
		return ErrInvalidDelay
	}

	if c.Mirror.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Mirror.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Mirror.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Mirror.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Mirror.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	if c.Advanced.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	return nil
}

// PacingDelay returns the delay applied after each successful fetch.
func (c *Config) PacingDelay() time.Duration {
	return time.Duration(c.Mirror.Pacing.DelayMs) * time.Millisecond
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the HTTP timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, Output: %s, Delay: %dms}",
		c.Mirror.Source.BaseURL,
		c.Mirror.Output.Dir,
		c.Mirror.Pacing.DelayMs,
	)
}
