// Package config loads manpower's runtime settings through viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ErrInvalid indicates a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid configuration")

// ServerConfig holds settings for the MCP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Config holds all runtime configuration for a manpower session.
// Values are populated from .manpower.yaml, MANPOWER_* env vars, and CLI flags.
type Config struct {
	DataFile      string       `mapstructure:"data_file"`
	DBPath        string       `mapstructure:"db_path"`
	TelemetryPath string       `mapstructure:"telemetry_path"`
	EndDate       string       `mapstructure:"end_date"`
	Step          float64      `mapstructure:"step"`
	Verbose       bool         `mapstructure:"verbose"`
	Server        ServerConfig `mapstructure:"server"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data_file", "manpower.json")
	viper.SetDefault("db_path", ".manpower/plan.db")
	viper.SetDefault("telemetry_path", ".manpower/events.jsonl")
	viper.SetDefault("end_date", "")
	viper.SetDefault("step", 0.5)
	viper.SetDefault("verbose", false)
	viper.SetDefault("server.port", 8392)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("config: %w: step must be positive, got %v", ErrInvalid, c.Step)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: %w: server.port %d out of range", ErrInvalid, c.Server.Port)
	}
	if c.DataFile == "" {
		return fmt.Errorf("config: %w: data_file is empty", ErrInvalid)
	}
	return nil
}
