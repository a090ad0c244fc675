// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the scanner's tunables (§6) from environment
// variables, with an optional config file merged underneath, via
// viper — the configuration library the broader example pack reaches
// for (luxfi-evm, orbas1-Synnergy), rather than a hand-rolled flag/env
// reader.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full set of bootstrap and runtime tunables (§6).
type Config struct {
	MinTVL           float64  `mapstructure:"min_tvl"`
	MinChainLength   int      `mapstructure:"min_chain_length"`
	MaxChainLength   int      `mapstructure:"max_chain_length"`
	StartEndToken    string   `mapstructure:"start_end_token"`
	InitialTokens    []string `mapstructure:"initial_tokens"`
	InitialBalance   float64  `mapstructure:"initial_balance"`
	SimulationAmount float64  `mapstructure:"simulation_amount"`

	TokensURL  string `mapstructure:"tokens_url"`
	OrcaURL    string `mapstructure:"orca_url"`
	RaydiumURL string `mapstructure:"raydium_url"`
	MeteoraURL string `mapstructure:"meteora_url"`

	BootstrapTimeoutSeconds int `mapstructure:"bootstrap_timeout_seconds"`
	BootstrapRetries        int `mapstructure:"bootstrap_retries"`

	StrictSlot bool `mapstructure:"strict_slot"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("min_tvl", 100_000.0)
	v.SetDefault("min_chain_length", 3)
	v.SetDefault("max_chain_length", 5)
	v.SetDefault("start_end_token", "SOL")
	v.SetDefault("initial_tokens", []string{"SOL", "USDC", "USDT", "BTC", "ETH", "mSOL", "stSOL", "RAY"})
	v.SetDefault("initial_balance", 1.0)
	v.SetDefault("simulation_amount", 1_000_000_000.0)
	v.SetDefault("bootstrap_timeout_seconds", 30)
	v.SetDefault("bootstrap_retries", 1)
	v.SetDefault("strict_slot", true)
}

// Load reads configuration from an optional file (if path is non-empty)
// and overlays environment variables prefixed ARBSCAN_, e.g.
// ARBSCAN_MIN_TVL. Flags, when supplied, take precedence over both.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "config: read config file")
		}
	}

	v.SetEnvPrefix("arbscan")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "config: bind flags")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}
