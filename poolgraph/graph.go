// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poolgraph implements the token/pool multigraph (C4): nodes are
// token symbols, and every registered pool contributes exactly one edge.
// Two DEX families quoting the same token pair therefore produce
// parallel edges. Two instances of Graph exist at runtime with identical
// topology, one per commitment level; this package models a single
// instance and leaves the pairing to the caller (see package router).
package poolgraph

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/luxfi/arbscan/errs"
	"github.com/luxfi/arbscan/registry"
)

// Edge is one pool's contribution to the graph: identity plus the
// derived metrics the router reads every recomputation.
type Edge struct {
	Pool    registry.Address
	Dex     registry.DexKind
	TokenA  string
	TokenB  string

	mu sync.Mutex

	Price          float64
	FeeRate        float64
	Liquidity      float64
	Weight         float64
	Active         bool
	LastUpdateSlot uint64
	LastUpdateTime time.Time
}

// Snapshot is a torn-safe read of an edge's metrics: the router only
// relies on per-field freshness, never on atomicity across fields
// (§5), so a plain mutex-guarded copy is sufficient.
type Snapshot struct {
	Pool           registry.Address
	Dex            registry.DexKind
	Price          float64
	FeeRate        float64
	Liquidity      float64
	Weight         float64
	Active         bool
	LastUpdateSlot uint64
	LastUpdateTime time.Time
}

func (e *Edge) snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Pool:           e.Pool,
		Dex:            e.Dex,
		Price:          e.Price,
		FeeRate:        e.FeeRate,
		Liquidity:      e.Liquidity,
		Weight:         e.Weight,
		Active:         e.Active,
		LastUpdateSlot: e.LastUpdateSlot,
		LastUpdateTime: e.LastUpdateTime,
	}
}

// Metrics is the field set written back to an edge after a meaningful
// pool-state change (§4.2 side effect 1).
type Metrics struct {
	Price     float64
	FeeRate   float64
	Liquidity float64
	Weight    float64
	Active    bool
}

func (e *Edge) setMetrics(m Metrics, slot uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Price = m.Price
	e.FeeRate = m.FeeRate
	e.Liquidity = m.Liquidity
	e.Weight = m.Weight
	e.Active = m.Active
	e.LastUpdateSlot = slot
	e.LastUpdateTime = time.Now()
}

const stripeCount = 32

// Graph is a token/pool multigraph with a fixed topology (built once
// during bootstrap) and mutable per-edge metrics (mutated continuously
// by ingest). Per-edge writes are serialized by a stripe selected from
// the pool address, matching the striped-lock policy in §5; the graph's
// own RWMutex only protects the topology maps, which never change after
// bootstrap.
type Graph struct {
	mu sync.RWMutex

	adjacency map[string][]*Edge          // tokenSymbol -> incident edges
	byPool    map[registry.Address][]*Edge // pool address -> its edge(s) (usually 1, but a pool could theoretically be double-registered)

	stripes [stripeCount]sync.Mutex
}

// New returns an empty graph ready for topology construction.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]*Edge),
		byPool:    make(map[registry.Address][]*Edge),
	}
}

// AddEdge inserts one fresh, zero-metric, active edge for the given
// pool. Called once per registered pool during bootstrap; never called
// again afterwards (topology is frozen).
func (g *Graph) AddEdge(pool registry.Address, dex registry.DexKind, tokenA, tokenB string) *Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	e := &Edge{Pool: pool, Dex: dex, TokenA: tokenA, TokenB: tokenB, Active: true}
	g.adjacency[tokenA] = append(g.adjacency[tokenA], e)
	g.adjacency[tokenB] = append(g.adjacency[tokenB], e)
	g.byPool[pool] = append(g.byPool[pool], e)
	return e
}

// EdgesBetween returns every edge (across all DEXes) connecting the two
// token symbols, in either direction.
func (g *Graph) EdgesBetween(a, b string) []Snapshot {
	g.mu.RLock()
	candidates := g.adjacency[a]
	g.mu.RUnlock()

	out := make([]Snapshot, 0, len(candidates))
	for _, e := range candidates {
		if (e.TokenA == a && e.TokenB == b) || (e.TokenA == b && e.TokenB == a) {
			out = append(out, e.snapshot())
		}
	}
	return out
}

// EdgesForPool returns the edge(s) registered under a pool address.
func (g *Graph) EdgesForPool(pool registry.Address) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byPool[pool]
}

// UpdateMetrics applies fresh metrics to every edge registered under
// pool, serialized via the address's stripe lock.
func (g *Graph) UpdateMetrics(pool registry.Address, m Metrics, slot uint64) {
	stripe := &g.stripes[stripeIndex(pool)]
	stripe.Lock()
	defer stripe.Unlock()

	g.mu.RLock()
	edges := g.byPool[pool]
	g.mu.RUnlock()

	for _, e := range edges {
		e.setMetrics(m, slot)
	}
}

func stripeIndex(pool registry.Address) uint64 {
	return xxhash.Sum64(pool[:]) % stripeCount
}

// Stats returns the node and edge counts for diagnostics.
func (g *Graph) Stats() (nodes, edges int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nodes = len(g.adjacency)
	edges = len(g.byPool)
	return
}

// Validate checks I2: every edge's pool address exists in the registry
// under the edge's DEX kind.
func (g *Graph) Validate(exists func(dex registry.DexKind, addr registry.Address) bool) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for pool, edges := range g.byPool {
		for _, e := range edges {
			if !exists(e.Dex, pool) {
				return errs.ErrGraphMissing
			}
		}
	}
	return nil
}
