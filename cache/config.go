package cache

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-loadable configuration for a cache instance. Absent
// fields fall back to the package defaults. MaxEntries is a pointer so
// an explicit `max_entries: 0` (disable size enforcement) is
// distinguishable from leaving the field out.
type Config struct {
	DefaultTTLSeconds    int    `yaml:"default_ttl_seconds"`
	MaxEntries           *int   `yaml:"max_entries"`
	SweepIntervalSeconds int    `yaml:"sweep_interval_seconds"`
	Prefix               string `yaml:"prefix"`
	RedisURL             string `yaml:"redis_url"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cache: read config: %w", err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("cache: parse config: %w", err)
	}
	return cfg, nil
}

// Options converts the config into constructor options, skipping absent
// fields so defaults apply.
func (c Config) Options() []Option {
	var opts []Option
	if c.DefaultTTLSeconds > 0 {
		opts = append(opts, WithDefaultTTL(time.Duration(c.DefaultTTLSeconds)*time.Second))
	}
	if c.MaxEntries != nil {
		opts = append(opts, WithMaxEntries(*c.MaxEntries))
	}
	if c.SweepIntervalSeconds > 0 {
		opts = append(opts, WithSweepInterval(time.Duration(c.SweepIntervalSeconds)*time.Second))
	}
	if c.Prefix != "" {
		opts = append(opts, WithPrefix(c.Prefix))
	}
	return opts
}
