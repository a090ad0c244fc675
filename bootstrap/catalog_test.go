// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bootstrap

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/arbscan/registry"
)

func addr32(b byte) string {
	var a [32]byte
	a[0] = b
	return base58.Encode(a[:])
}

// TestBootstrapRejectsLowTVLPool is scenario 1: a token list with SOL and
// USDC, one Orca pool quoting them with tvl=50_000 (below MinTVL). After
// bootstrap there must be no edges and no pool findable by symbols.
func TestBootstrapRejectsLowTVLPool(t *testing.T) {
	cat := &Catalogs{
		Tokens: []TokenEntry{
			{Address: addr32(1), Symbol: "SOL"},
			{Address: addr32(2), Symbol: "USDC"},
		},
		Orca: []PoolEntry{
			{Address: addr32(10), MintA: addr32(1), MintB: addr32(2), TVL: "50000"},
		},
	}

	res, err := Build(cat, registry.MinTVL, []string{"SOL", "USDC"}, "SOL", 3, 5)
	require.NoError(t, err)

	_, found := res.Registry.FindPoolBySymbols(registry.Orca, "SOL", "USDC")
	require.False(t, found)

	nodes, edges := res.TentativeGraph.Stats()
	require.Equal(t, 0, nodes)
	require.Equal(t, 0, edges)
	require.Equal(t, 0, res.Index.Len())
}

// TestBootstrapAcceptsHighTVLPoolAndBuildsTriangle exercises the full
// pipeline end to end: three tokens, pools on all three pairs above
// MinTVL, and a pivot that should yield two 4-cycles (scenario 2's
// triangle, reached via the catalogue path rather than direct registry
// construction).
func TestBootstrapAcceptsHighTVLPoolAndBuildsTriangle(t *testing.T) {
	cat := &Catalogs{
		Tokens: []TokenEntry{
			{Address: addr32(1), Symbol: "SOL"},
			{Address: addr32(2), Symbol: "USDC"},
			{Address: addr32(3), Symbol: "USDT"},
		},
		Orca: []PoolEntry{
			{Address: addr32(10), MintA: addr32(1), MintB: addr32(2), TVL: "200000"},
			{Address: addr32(11), MintA: addr32(2), MintB: addr32(3), TVL: "200000"},
			{Address: addr32(12), MintA: addr32(1), MintB: addr32(3), TVL: "200000"},
		},
	}

	res, err := Build(cat, registry.MinTVL, []string{"SOL", "USDC", "USDT"}, "SOL", 3, 5)
	require.NoError(t, err)

	_, found := res.Registry.FindPoolBySymbols(registry.Orca, "SOL", "USDC")
	require.True(t, found)

	nodes, edges := res.TentativeGraph.Stats()
	require.Equal(t, 3, nodes)
	require.Equal(t, 3, edges)

	require.Equal(t, 2, res.Index.FourCount)
	require.Equal(t, 2, res.Index.Len())
}

// TestBootstrapSkipsPoolWithUnknownMint ensures a pool referencing a mint
// absent from the token list is silently dropped rather than erroring.
func TestBootstrapSkipsPoolWithUnknownMint(t *testing.T) {
	cat := &Catalogs{
		Tokens: []TokenEntry{
			{Address: addr32(1), Symbol: "SOL"},
		},
		Orca: []PoolEntry{
			{Address: addr32(10), MintA: addr32(1), MintB: addr32(99), TVL: "500000"},
		},
	}

	res, err := Build(cat, registry.MinTVL, []string{"SOL"}, "SOL", 3, 5)
	require.NoError(t, err)
	nodes, edges := res.TentativeGraph.Stats()
	require.Equal(t, 0, nodes)
	require.Equal(t, 0, edges)
}
