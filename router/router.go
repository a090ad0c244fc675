// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router implements the incremental cycle recomputation engine
// (C7): given a pool update, look up the cycles it affects via the
// reverse index and recompute each one's best-pool roll-up against both
// commitment levels.
package router

import (
	"sync"
	"time"

	log "github.com/luxfi/log"

	"github.com/luxfi/arbscan/chains"
	"github.com/luxfi/arbscan/metrics"
	"github.com/luxfi/arbscan/poolgraph"
	"github.com/luxfi/arbscan/poolstate"
	"github.com/luxfi/arbscan/pricing"
	"github.com/luxfi/arbscan/registry"
)

// dexOrder fixes the tie-break iteration order (Orca, Raydium, Meteora)
// required by §4.7 so recomputation stays deterministic.
var dexOrder = [...]registry.DexKind{registry.Orca, registry.Raydium, registry.Meteora}

// HopCandidate is one DEX's pool for a given hop, with its derived
// metrics (§4.7 ExtendedPoolInfo).
type HopCandidate struct {
	Pool   registry.Address
	Dex    registry.DexKind
	Weight float64
	poolgraph.Snapshot
}

// ChainResult is the outcome of recalc_chain: the chosen best pool per
// hop, the rolled-up total weight, and the simulated notional amount.
type ChainResult struct {
	Tokens      []string
	BestPools   []HopCandidate
	TotalWeight float64
	// SimulatedAmount is INITIAL_BALANCE * TotalWeight, truncated to an
	// unsigned integer per §4.7 ("unsigned, truncating").
	SimulatedAmount uint64
}

// OpportunityFunc receives a tentative/confirmed result pair for every
// recomputed cycle; the arbitrage package implements it.
type OpportunityFunc func(cycleID int, tokens []string, tentative, confirmed *ChainResult)

// Engine couples the dual-commitment graphs with the frozen chain index
// to serve on_pool_updated.
type Engine struct {
	Tentative *poolgraph.Graph
	Confirmed *poolgraph.Graph
	Index     *chains.Index

	InitialBalance float64

	// Metrics is optional; when set, RecalcChain timing and the
	// active-cycle gauge are reported through it.
	Metrics *metrics.Registry

	onOpportunity OpportunityFunc
	logger        log.Logger

	activeMu     sync.Mutex
	activeCycles map[int]bool
}

// New builds a router engine. onOpportunity may be nil during tests that
// only exercise recalc_chain directly.
func New(tentative, confirmed *poolgraph.Graph, idx *chains.Index, initialBalance float64, onOpportunity OpportunityFunc) *Engine {
	return &Engine{
		Tentative:      tentative,
		Confirmed:      confirmed,
		Index:          idx,
		InitialBalance: initialBalance,
		onOpportunity:  onOpportunity,
		logger:         log.Root(),
		activeCycles:   make(map[int]bool),
	}
}

func (e *Engine) graphFor(commitment poolstate.Commitment) *poolgraph.Graph {
	if commitment == poolstate.Confirmed {
		return e.Confirmed
	}
	return e.Tentative
}

// RecalcChain builds, per hop, the candidate pools across all DEXes from
// graph g, picks the active pool of maximum weight per hop (ties keep
// the current best, first-seen-in-dexOrder otherwise), and rolls up the
// total weight and simulated amount. Returns nil if any hop has no
// active pool.
func (e *Engine) RecalcChain(tokens []string, commitment poolstate.Commitment) *ChainResult {
	if e.Metrics != nil {
		start := time.Now()
		defer func() { e.Metrics.ChainRecalcDuration.Observe(time.Since(start).Seconds()) }()
	}

	g := e.graphFor(commitment)
	if g == nil {
		e.logger.Warn("router: graph missing for commitment", "commitment", commitment.String())
		return nil
	}

	result := &ChainResult{Tokens: tokens, TotalWeight: 1.0}
	for i := 0; i+1 < len(tokens); i++ {
		best, ok := bestPoolForHop(g, tokens[i], tokens[i+1])
		if !ok {
			return nil
		}
		result.BestPools = append(result.BestPools, best)
		result.TotalWeight *= best.Weight
	}
	raw := e.InitialBalance * result.TotalWeight
	if raw > 0 {
		result.SimulatedAmount = uint64(raw)
	}
	return result
}

// bestPoolForHop scans every DEX's candidate edge for the hop and keeps
// the active edge of maximum weight, breaking ties by keeping whichever
// was found first in dexOrder (stability: equal weights never displace
// the current best).
func bestPoolForHop(g *poolgraph.Graph, a, b string) (HopCandidate, bool) {
	var best HopCandidate
	found := false

	for _, snap := range g.EdgesBetween(a, b) {
		if !snap.Active || snap.Liquidity <= 0 {
			continue
		}
		if !found {
			best = HopCandidate{Pool: snap.Pool, Dex: snap.Dex, Weight: snap.Weight, Snapshot: snap}
			found = true
			continue
		}
		if pricing.WeightLess(best.Weight, snap.Weight) {
			best = HopCandidate{Pool: snap.Pool, Dex: snap.Dex, Weight: snap.Weight, Snapshot: snap}
		}
		// equal or worse weight: keep current best (stability rule).
	}
	if !found {
		return HopCandidate{}, false
	}
	return best, true
}

// OnPoolUpdated looks up every cycle referencing pool and recomputes it
// against both commitment levels, forwarding each pair to the
// opportunity sink exactly once per cycle (§4.2 side effect 3 is the
// caller's responsibility: ingest.Dispatcher.HandleUpdate invokes this
// after a meaningful change).
func (e *Engine) OnPoolUpdated(pool registry.Address) {
	if e.Index == nil {
		return
	}
	for _, cycleID := range e.Index.CyclesForPool(pool) {
		cycle := e.Index.Cycle(cycleID)
		tentative := e.RecalcChain(cycle.Tokens, poolstate.Tentative)
		confirmed := e.RecalcChain(cycle.Tokens, poolstate.Confirmed)
		if e.Metrics != nil {
			e.recordActiveCycle(cycleID, confirmed != nil)
		}
		if e.onOpportunity != nil {
			e.onOpportunity(cycleID, cycle.Tokens, tentative, confirmed)
		}
	}
}

// recordActiveCycle updates the per-cycle last-known-active state and
// reports the running count through ActiveCycles: every hop of cycleID
// has an active best pool in the confirmed graph iff active is true.
func (e *Engine) recordActiveCycle(cycleID int, active bool) {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	if e.activeCycles[cycleID] == active {
		return
	}
	e.activeCycles[cycleID] = active

	count := 0
	for _, v := range e.activeCycles {
		if v {
			count++
		}
	}
	e.Metrics.ActiveCycles.Set(float64(count))
}
