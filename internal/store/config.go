package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"position-watcher/internal/position"
)

const basePathEnv = "TRADER_BASE_PATH"

type PositionConfig struct {
	Account    string `yaml:"account"`
	Instrument string `yaml:"instrument"`
}

type Config struct {
	BasePath       string           `yaml:"base_path"`
	PollIntervalMs int              `yaml:"poll_interval_ms"`
	Positions      []PositionConfig `yaml:"positions"`
	Journal        struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"journal"`
}

// PollInterval returns the configured interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) Validate() error {
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMs)
	}
	if len(c.Positions) == 0 {
		return errors.New("positions cannot be empty")
	}
	for i, p := range c.Positions {
		if strings.TrimSpace(p.Account) == "" {
			return fmt.Errorf("positions[%d].account cannot be empty", i)
		}
		if strings.TrimSpace(p.Instrument) == "" {
			return fmt.Errorf("positions[%d].instrument cannot be empty", i)
		}
	}
	if c.Journal.RetentionDays < 0 {
		return fmt.Errorf("journal.retention_days must not be negative, got %d", c.Journal.RetentionDays)
	}
	return nil
}

// ApplyDefaults fills unset fields. An empty base path is taken from
// TRADER_BASE_PATH, then resolved from USERPROFILE, so trackers receive a
// concrete directory. A base path that is already set is kept.
func (c *Config) ApplyDefaults(lookup position.LookupEnv) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = int(position.DefaultInterval / time.Millisecond)
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "logs"
	}
	if c.BasePath == "" {
		if v, ok := lookup(basePathEnv); ok && v != "" {
			c.BasePath = v
		}
	}
	if c.BasePath == "" {
		base, err := position.ResolveBasePath(lookup)
		if err != nil {
			return err
		}
		c.BasePath = base
	}
	return nil
}

// applyEnvOverrides lets the environment win over values read from a file.
func (c *Config) applyEnvOverrides(lookup position.LookupEnv) {
	if v, ok := lookup(basePathEnv); ok && v != "" {
		c.BasePath = v
	}
}

// Parse decodes YAML, applies env overrides and defaults, and validates.
func Parse(b []byte, lookup position.LookupEnv) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyEnvOverrides(lookup)
	if err := c.ApplyDefaults(lookup); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, os.LookupEnv)
}
