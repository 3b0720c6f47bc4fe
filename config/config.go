package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete simulator configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID   string `json:"id" yaml:"id"`
	Mode string `json:"mode" yaml:"mode"` // "demo" or "live"

	// QuoteSymbol is the stablecoin used as quote asset and standard
	// leveraged collateral; NativeSymbol is the chain coin used as
	// collateral in native-margined mode and as the swap bridge asset.
	QuoteSymbol  string `json:"quote_symbol" yaml:"quote_symbol"`
	NativeSymbol string `json:"native_symbol" yaml:"native_symbol"`

	// Balances maps mode -> symbol -> starting available amount. A
	// mode switch resets the ledger from this map.
	Balances map[string]map[string]float64 `json:"balances" yaml:"balances"`
}

// PricingConfig contains cross-asset conversion parameters
type PricingConfig struct {
	Spread float64 `json:"spread" yaml:"spread"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv" or "sqlite"
	FillsFile     string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	PositionsFile string `json:"positions_file,omitempty" yaml:"positions_file,omitempty"`
	EquityFile    string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.ID == "" {
		return fmt.Errorf("account.id is required")
	}
	if c.Account.Mode != "demo" && c.Account.Mode != "live" {
		return fmt.Errorf("account.mode must be 'demo' or 'live'")
	}
	if c.Account.QuoteSymbol == "" {
		return fmt.Errorf("account.quote_symbol is required")
	}
	if c.Account.NativeSymbol == "" {
		return fmt.Errorf("account.native_symbol is required")
	}
	for mode, balances := range c.Account.Balances {
		if mode != "demo" && mode != "live" {
			return fmt.Errorf("account.balances: unknown mode %q", mode)
		}
		for sym, amt := range balances {
			if amt < 0 {
				return fmt.Errorf("account.balances.%s.%s must not be negative", mode, sym)
			}
		}
	}
	if c.Pricing.Spread < 0 || c.Pricing.Spread >= 1 {
		return fmt.Errorf("pricing.spread must be in [0, 1)")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.FillsFile == "" || c.Journal.PositionsFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal fills_file, positions_file and equity_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:           "SIM-001",
			Mode:         "demo",
			QuoteSymbol:  "USDT",
			NativeSymbol: "TON",
			Balances: map[string]map[string]float64{
				"demo": {
					"USDT": 10000,
					"TON":  100,
				},
				"live": {},
			},
		},
		Pricing: PricingConfig{
			Spread: 0.01,
		},
		Journal: JournalConfig{
			Type:          "csv",
			FillsFile:     "./fills.csv",
			PositionsFile: "./positions.csv",
			EquityFile:    "./equity.csv",
		},
	}
}
