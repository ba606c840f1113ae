package utils

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/driver"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/rules"
)

// PatternPlacement puts a named built-in pattern at a grid position
type PatternPlacement struct {
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Config holds the configuration for the simulation
type Config struct {
	Width               int                `json:"width"`
	Height              int                `json:"height"`
	SpeedMS             int                `json:"speed_ms"`
	Rule                string             `json:"rule"`
	RandomDensity       float64            `json:"random_density"`
	Seed                int64              `json:"seed"`
	MaxGenerations      int                `json:"max_generations"`
	AutoRestart         bool               `json:"auto_restart"`
	StagnationThreshold int                `json:"stagnation_threshold"`
	InjectionCount      int                `json:"injection_count"`
	Patterns            []PatternPlacement `json:"patterns"`
	Render              bool               `json:"render"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               model.DefaultWidth,
		Height:              model.DefaultHeight,
		SpeedMS:             driver.DefaultSpeedMS,
		Rule:                "B3/S23",
		RandomDensity:       driver.DefaultDensity,
		Seed:                0, // 0 seeds from the clock
		MaxGenerations:      0, // unlimited
		AutoRestart:         true,
		StagnationThreshold: 5,
		InjectionCount:      3,
		Render:              true,
	}
}

// LoadConfig loads configuration from JSON file; callers run Validate once flag overrides are applied
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Bind attaches overrides for the most used settings to fs
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.MaxGenerations, "generations", c.MaxGenerations, "stop after this many generations (0 = unlimited)")
	fs.IntVar(&c.SpeedMS, "speed", c.SpeedMS, "milliseconds between generations")
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule in B/S notation")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 = time based)")
	fs.Float64Var(&c.RandomDensity, "density", c.RandomDensity, "initial fill probability")
	fs.BoolVar(&c.Render, "render", c.Render, "draw the grid to the terminal")
}

// Validate checks every field and returns the first problem found
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("[Validate] grid must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if c.SpeedMS < driver.MinSpeedMS || c.SpeedMS > driver.MaxSpeedMS {
		return errors.Wrapf(driver.ErrSpeedOutOfRange, "[Validate] speed_ms %d", c.SpeedMS)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Errorf("[Validate] random_density %v not in [0, 1]", c.RandomDensity)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("[Validate] max_generations %d is negative", c.MaxGenerations)
	}
	if c.StagnationThreshold < 1 {
		return errors.Errorf("[Validate] stagnation_threshold %d must be positive", c.StagnationThreshold)
	}
	if c.InjectionCount < 0 {
		return errors.Errorf("[Validate] injection_count %d is negative", c.InjectionCount)
	}
	if _, err := rules.Parse(c.Rule); err != nil {
		return errors.WithMessage(err, "[Validate]")
	}
	for _, p := range c.Patterns {
		if _, ok := model.PatternByName(p.Name); !ok {
			return errors.Errorf("[Validate] unknown pattern %q", p.Name)
		}
	}
	return nil
}

// RuleSet parses the configured rule
func (c Config) RuleSet() (*rules.RuleSet, error) {
	return rules.Parse(c.Rule)
}
