// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/arbscan/chains"
	"github.com/luxfi/arbscan/metrics"
	"github.com/luxfi/arbscan/poolgraph"
	"github.com/luxfi/arbscan/poolstate"
	"github.com/luxfi/arbscan/registry"
)

func addrOf(b byte) registry.Address {
	var a registry.Address
	a[0] = b
	return a
}

func TestRecalcChainPicksMaxWeightActivePool(t *testing.T) {
	g := poolgraph.New()
	pA := addrOf(1)
	pB := addrOf(2)
	g.AddEdge(pA, registry.Orca, "SOL", "USDC")
	g.AddEdge(pB, registry.Raydium, "SOL", "USDC")

	g.UpdateMetrics(pA, poolgraph.Metrics{Price: 1, FeeRate: 0, Liquidity: 100, Weight: 0.5, Active: true}, 1)
	g.UpdateMetrics(pB, poolgraph.Metrics{Price: 1, FeeRate: 0, Liquidity: 100, Weight: 0.9, Active: true}, 1)

	e := New(g, g, nil, 1_000, nil)
	res := e.RecalcChain([]string{"SOL", "USDC"}, poolstate.Tentative)
	require.NotNil(t, res)
	require.Len(t, res.BestPools, 1)
	require.Equal(t, pB, res.BestPools[0].Pool)
	require.InDelta(t, 0.9, res.TotalWeight, 1e-9)
	require.Equal(t, uint64(900), res.SimulatedAmount)
}

func TestRecalcChainReturnsNilWhenHopInactive(t *testing.T) {
	g := poolgraph.New()
	pA := addrOf(1)
	g.AddEdge(pA, registry.Orca, "SOL", "USDC")
	g.UpdateMetrics(pA, poolgraph.Metrics{Price: 1, FeeRate: 0, Liquidity: 100, Weight: 0.5, Active: false}, 1)

	e := New(g, g, nil, 1_000, nil)
	res := e.RecalcChain([]string{"SOL", "USDC"}, poolstate.Tentative)
	require.Nil(t, res)
}

func TestRecalcChainTieKeepsFirstSeen(t *testing.T) {
	g := poolgraph.New()
	pOrca := addrOf(1)
	pRaydium := addrOf(2)
	g.AddEdge(pOrca, registry.Orca, "SOL", "USDC")
	g.AddEdge(pRaydium, registry.Raydium, "SOL", "USDC")
	g.UpdateMetrics(pOrca, poolgraph.Metrics{Price: 1, Liquidity: 1, Weight: 0.5, Active: true}, 1)
	g.UpdateMetrics(pRaydium, poolgraph.Metrics{Price: 1, Liquidity: 1, Weight: 0.5, Active: true}, 1)

	e := New(g, g, nil, 1_000, nil)
	res := e.RecalcChain([]string{"SOL", "USDC"}, poolstate.Tentative)
	require.NotNil(t, res)
	// Equal weights: whichever EdgesBetween returns first is kept
	// (insertion order == dex iteration order here since Orca was
	// added first).
	require.Equal(t, pOrca, res.BestPools[0].Pool)
}

func TestOnPoolUpdatedInvokesOpportunityForEachCycle(t *testing.T) {
	r := registry.New()
	r.AddToken("SOL", addrOf(10))
	r.AddToken("USDC", addrOf(11))
	r.AddToken("USDT", addrOf(12))
	r.AddPool("SOL", "USDC", addrOf(1), 200_000, registry.Orca)
	r.AddPool("SOL", "USDT", addrOf(2), 200_000, registry.Orca)
	r.AddPool("USDC", "USDT", addrOf(3), 200_000, registry.Orca)

	four, five := chains.Enumerate([]string{"SOL", "USDC", "USDT"}, r, "SOL", 3, 5)
	idx := chains.BuildIndex(four, five, r)

	g := poolgraph.New()
	for _, rec := range []struct {
		addr       registry.Address
		tokenA, tokenB string
	}{
		{addrOf(1), "SOL", "USDC"},
		{addrOf(2), "SOL", "USDT"},
		{addrOf(3), "USDC", "USDT"},
	} {
		g.AddEdge(rec.addr, registry.Orca, rec.tokenA, rec.tokenB)
		g.UpdateMetrics(rec.addr, poolgraph.Metrics{Price: 1, Liquidity: 100, Weight: 0.5, Active: true}, 1)
	}

	var invocations int
	e := New(g, g, idx, 1_000, func(cycleID int, tokens []string, tentative, confirmed *ChainResult) {
		invocations++
		require.NotNil(t, tentative)
	})

	e.OnPoolUpdated(addrOf(1))
	require.Equal(t, 2, invocations) // pool 1 participates in both 4-cycles
}

func TestRecalcChainObservesDurationMetric(t *testing.T) {
	g := poolgraph.New()
	pA := addrOf(1)
	g.AddEdge(pA, registry.Orca, "SOL", "USDC")
	g.UpdateMetrics(pA, poolgraph.Metrics{Price: 1, Liquidity: 100, Weight: 0.5, Active: true}, 1)

	mtr := metrics.New()
	e := New(g, g, nil, 1_000, nil)
	e.Metrics = mtr

	e.RecalcChain([]string{"SOL", "USDC"}, poolstate.Tentative)
	require.Equal(t, 1, testutil.CollectAndCount(mtr.ChainRecalcDuration))
}

func TestOnPoolUpdatedSetsActiveCyclesGauge(t *testing.T) {
	r := registry.New()
	r.AddToken("SOL", addrOf(10))
	r.AddToken("USDC", addrOf(11))
	r.AddToken("USDT", addrOf(12))
	r.AddPool("SOL", "USDC", addrOf(1), 200_000, registry.Orca)
	r.AddPool("SOL", "USDT", addrOf(2), 200_000, registry.Orca)
	r.AddPool("USDC", "USDT", addrOf(3), 200_000, registry.Orca)

	four, five := chains.Enumerate([]string{"SOL", "USDC", "USDT"}, r, "SOL", 3, 5)
	idx := chains.BuildIndex(four, five, r)

	g := poolgraph.New()
	for _, rec := range []struct {
		addr           registry.Address
		tokenA, tokenB string
	}{
		{addrOf(1), "SOL", "USDC"},
		{addrOf(2), "SOL", "USDT"},
		{addrOf(3), "USDC", "USDT"},
	} {
		g.AddEdge(rec.addr, registry.Orca, rec.tokenA, rec.tokenB)
		g.UpdateMetrics(rec.addr, poolgraph.Metrics{Price: 1, Liquidity: 100, Weight: 0.5, Active: true}, 1)
	}

	mtr := metrics.New()
	e := New(g, g, idx, 1_000, nil)
	e.Metrics = mtr

	e.OnPoolUpdated(addrOf(1))
	require.Equal(t, float64(2), testutil.ToFloat64(mtr.ActiveCycles))
}
