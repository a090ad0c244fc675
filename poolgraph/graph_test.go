// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/arbscan/registry"
)

func addrOf(b byte) registry.Address {
	var a registry.Address
	a[0] = b
	return a
}

func TestAddEdgeAndEdgesBetween(t *testing.T) {
	g := New()
	pool := addrOf(1)
	g.AddEdge(pool, registry.Orca, "SOL", "USDC")

	edges := g.EdgesBetween("SOL", "USDC")
	require.Len(t, edges, 1)
	require.Equal(t, pool, edges[0].Pool)
	require.True(t, edges[0].Active)

	// symmetric lookup
	edges2 := g.EdgesBetween("USDC", "SOL")
	require.Len(t, edges2, 1)
}

func TestMultigraphParallelEdges(t *testing.T) {
	g := New()
	g.AddEdge(addrOf(1), registry.Orca, "SOL", "USDC")
	g.AddEdge(addrOf(2), registry.Raydium, "SOL", "USDC")

	edges := g.EdgesBetween("SOL", "USDC")
	require.Len(t, edges, 2)
}

func TestUpdateMetricsWritesBack(t *testing.T) {
	g := New()
	pool := addrOf(1)
	g.AddEdge(pool, registry.Orca, "SOL", "USDC")

	g.UpdateMetrics(pool, Metrics{Price: 2.5, FeeRate: 0.003, Liquidity: 1000, Weight: 1.2, Active: true}, 55)

	edges := g.EdgesBetween("SOL", "USDC")
	require.Len(t, edges, 1)
	require.InDelta(t, 2.5, edges[0].Price, 1e-9)
	require.Equal(t, uint64(55), edges[0].LastUpdateSlot)
}

func TestValidateDetectsMissingPool(t *testing.T) {
	g := New()
	pool := addrOf(1)
	g.AddEdge(pool, registry.Orca, "SOL", "USDC")

	err := g.Validate(func(dex registry.DexKind, addr registry.Address) bool { return false })
	require.Error(t, err)

	err = g.Validate(func(dex registry.DexKind, addr registry.Address) bool { return true })
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	g := New()
	g.AddEdge(addrOf(1), registry.Orca, "SOL", "USDC")
	g.AddEdge(addrOf(2), registry.Raydium, "SOL", "USDT")

	nodes, edges := g.Stats()
	require.Equal(t, 3, nodes) // SOL, USDC, USDT
	require.Equal(t, 2, edges)
}
