// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, 100_000.0, cfg.MinTVL)
	require.Equal(t, 3, cfg.MinChainLength)
	require.Equal(t, 5, cfg.MaxChainLength)
	require.Equal(t, "SOL", cfg.StartEndToken)
	require.True(t, cfg.StrictSlot)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("ARBSCAN_MIN_TVL", "250000")
	t.Setenv("ARBSCAN_START_END_TOKEN", "USDC")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, 250000.0, cfg.MinTVL)
	require.Equal(t, "USDC", cfg.StartEndToken)
}

func TestLoadMissingConfigFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml", nil)
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "arbscan-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("min_tvl: 500000\nstart_end_token: USDT\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := Load(f.Name(), nil)
	require.NoError(t, err)
	require.Equal(t, 500000.0, cfg.MinTVL)
	require.Equal(t, "USDT", cfg.StartEndToken)
}
