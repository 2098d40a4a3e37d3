package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Scheduler SchedulerConfig `toml:"scheduler"`
	Logging   LoggingConfig   `toml:"logging"`
	Demo      DemoConfig      `toml:"demo"`
}

type SchedulerConfig struct {
	TickRate   time.Duration `toml:"tick_rate"`
	LockPolicy string        `toml:"lock_policy"` // "skip" or "wait"
	Passes     int           `toml:"passes"`      // 0 = run until interrupted
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DemoConfig struct {
	Manifest   string `toml:"manifest"`
	Scripts    string `toml:"scripts"`
	Entities   int    `toml:"entities"` // extra randomly placed entities
	Seed       uint64 `toml:"seed"`
	StatsEvery int    `toml:"stats_every"` // passes between stats log lines, 0 = only at exit
}

// Load reads a TOML file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Scheduler.TickRate <= 0 {
		return fmt.Errorf("scheduler.tick_rate must be positive, got %s", c.Scheduler.TickRate)
	}
	if c.Scheduler.Passes < 0 {
		return fmt.Errorf("scheduler.passes must not be negative, got %d", c.Scheduler.Passes)
	}
	if c.Demo.Entities < 0 {
		return fmt.Errorf("demo.entities must not be negative, got %d", c.Demo.Entities)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			TickRate:   50 * time.Millisecond,
			LockPolicy: "skip",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Demo: DemoConfig{
			Entities:   100,
			Seed:       1,
			StatsEvery: 100,
		},
	}
}
