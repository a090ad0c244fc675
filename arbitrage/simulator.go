// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package arbitrage implements the notional-amount swap simulator (C8).
// It deliberately does not reuse the router's best_pool choice: per the
// design notes, the simulator applies its own directional (max/min
// price) rule to select a pool per hop, independent of the router's
// weight-based selection. This divergence is documented, not a bug.
package arbitrage

import (
	log "github.com/luxfi/log"

	"github.com/luxfi/arbscan/poolgraph"
	"github.com/luxfi/arbscan/pricing"
	"github.com/luxfi/arbscan/registry"
)

// HopExecution records the pool chosen and the amount routed through it
// for one hop of a simulated round trip.
type HopExecution struct {
	PoolAddress registry.Address
	AmountIn    float64
}

// Opportunity is a scored round trip: positive Profit means this cycle
// is presently profitable at AmountIn.
type Opportunity struct {
	Chain       []string
	TotalReturn float64
	Profit      float64
	Hops        []HopExecution
}

// Sink receives opportunities the caller decides to emit (profit > 0).
type Sink func(Opportunity)

// Simulator scores cycles against a single graph (one commitment level).
type Simulator struct {
	Graph *poolgraph.Graph
	sink  Sink
	log   log.Logger
}

// New returns a simulator bound to a graph and an emission sink. sink
// may be nil for tests that only inspect the returned Opportunity.
func New(graph *poolgraph.Graph, sink Sink) *Simulator {
	return &Simulator{Graph: graph, sink: sink, log: log.Root()}
}

// Simulate runs the round trip for chain starting with amountIn. Returns
// nil if any hop has no active candidate pool (NoActivePool, §7);
// otherwise returns the computed opportunity. The caller — or Simulate
// itself, via the sink — only emits opportunities with Profit > 0.
func (s *Simulator) Simulate(chain []string, amountIn float64) *Opportunity {
	hops := len(chain) - 1
	if hops < 1 {
		return nil
	}

	amount := amountIn
	opp := &Opportunity{Chain: chain}

	for i := 0; i < hops; i++ {
		isClosingHop := i == hops-1
		edge, ok := selectDirectionalEdge(s.Graph, chain[i], chain[i+1], isClosingHop)
		if !ok {
			s.log.Debug("arbitrage: no active pool for hop", "from", chain[i], "to", chain[i+1])
			return nil
		}
		res := pricing.SimulateSwap(amount, edge.Price, edge.FeeRate, edge.Liquidity)
		opp.Hops = append(opp.Hops, HopExecution{PoolAddress: edge.Pool, AmountIn: amount})
		amount = res.AmountOut
	}

	opp.TotalReturn = amount
	opp.Profit = amount - amountIn

	if opp.Profit > 0 && s.sink != nil {
		s.sink(*opp)
	}
	return opp
}

// selectDirectionalEdge picks the maximum-price active edge for the
// first/intermediate hops, or the minimum-price active edge for the
// closing hop — cheap output on the close maximizes round-trip tokens.
func selectDirectionalEdge(g *poolgraph.Graph, a, b string, closing bool) (poolgraph.Snapshot, bool) {
	var best poolgraph.Snapshot
	found := false

	for _, snap := range g.EdgesBetween(a, b) {
		if !snap.Active || snap.Liquidity <= 0 {
			continue
		}
		if !found {
			best = snap
			found = true
			continue
		}
		if closing {
			if snap.Price < best.Price {
				best = snap
			}
		} else {
			if snap.Price > best.Price {
				best = snap
			}
		}
	}
	return best, found
}
