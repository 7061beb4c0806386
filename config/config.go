// Package config loads and validates the simulation configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/bessim/metrics"
)

// Config is the root configuration of a simulation run.
type Config struct {
	Battery     BatteryConfig     `json:"battery"`
	Degradation DegradationConfig `json:"degradation"`
	Thermal     ThermalConfig     `json:"thermal"`
	Converter   ConverterConfig   `json:"converter"`
	Sim         SimConfig         `json:"sim"`
	Metrics     metrics.Config    `json:"metrics"`
	Output      OutputConfig      `json:"output"`
}

// Load reads the configuration file (yaml or json by extension), applies
// BESSIM_-prefixed environment overrides, defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("BESSIM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bessim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Battery.SetDefaults()
	c.Degradation.SetDefaults()
	c.Thermal.SetDefaults()
	c.Converter.SetDefaults()
	c.Sim.SetDefaults()
	c.Metrics.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Battery.Validate(); err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	if err := c.Degradation.Validate(); err != nil {
		return fmt.Errorf("degradation: %w", err)
	}
	if err := c.Converter.Validate(); err != nil {
		return fmt.Errorf("converter: %w", err)
	}
	if err := c.Sim.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
