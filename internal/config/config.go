// Package config assembles server configuration from environment
// variables, command-line flags, and an optional YAML balance file.
// Precedence is flags over environment over defaults.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"pir8/internal/game"
)

// Config holds everything the server binary needs to start.
type Config struct {
	Addr        string `env:"PIR8_ADDR" envDefault:":30000"`
	DBPath      string `env:"PIR8_DB_PATH" envDefault:"data/pir8.db"`
	BalanceFile string `env:"PIR8_BALANCE_FILE"`

	// Per-IP message rate limiting.
	RateLimit float64 `env:"PIR8_RATE_LIMIT" envDefault:"10"`
	RateBurst int     `env:"PIR8_RATE_BURST" envDefault:"20"`

	ShutdownSecs int `env:"PIR8_SHUTDOWN_SECS" envDefault:"5"`
}

// FromEnv loads configuration from the environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Balance returns the rule numbers the engine should run with: the
// built-in defaults, overlaid with the YAML balance file when one is
// configured. Only fields present in the file are overridden.
func (c Config) Balance() (game.Balance, error) {
	balance := game.DefaultBalance()
	if c.BalanceFile == "" {
		return balance, nil
	}

	data, err := os.ReadFile(c.BalanceFile)
	if err != nil {
		return game.Balance{}, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(data, &balance); err != nil {
		return game.Balance{}, fmt.Errorf("parse balance file %s: %w", c.BalanceFile, err)
	}
	return balance, nil
}
