// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bootstrap

import (
	"context"
	"encoding/json"

	log "github.com/luxfi/log"

	"github.com/luxfi/arbscan/chains"
	"github.com/luxfi/arbscan/poolgraph"
	"github.com/luxfi/arbscan/registry"
)

// TokenEntry is the minimal token-list schema (§6): only address and
// symbol are required, extra fields are ignored.
type TokenEntry struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// PoolEntry is the minimal DEX-pool schema shared by all three
// catalogues: pool address, the two token mints, and TVL. TVL may
// arrive as either a JSON number or a numeric string depending on the
// source family, hence json.Number.
type PoolEntry struct {
	Address string      `json:"address"`
	MintA   string      `json:"mintA"`
	MintB   string      `json:"mintB"`
	TVL     json.Number `json:"tvl"`
}

// Catalogs bundles the four bootstrap sources.
type Catalogs struct {
	Tokens  []TokenEntry
	Orca    []PoolEntry
	Raydium []PoolEntry
	Meteora []PoolEntry
}

// Sources is the set of URLs to fetch.
type Sources struct {
	TokensURL  string
	OrcaURL    string
	RaydiumURL string
	MeteoraURL string
}

// FetchAll downloads and parses all four catalogues.
func FetchAll(ctx context.Context, loader Loader, src Sources) (*Catalogs, error) {
	tokensRaw, err := loader.Fetch(ctx, src.TokensURL)
	if err != nil {
		return nil, err
	}
	orcaRaw, err := loader.Fetch(ctx, src.OrcaURL)
	if err != nil {
		return nil, err
	}
	raydiumRaw, err := loader.Fetch(ctx, src.RaydiumURL)
	if err != nil {
		return nil, err
	}
	meteoraRaw, err := loader.Fetch(ctx, src.MeteoraURL)
	if err != nil {
		return nil, err
	}

	cat := &Catalogs{}
	if err := json.Unmarshal(tokensRaw, &cat.Tokens); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(orcaRaw, &cat.Orca); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raydiumRaw, &cat.Raydium); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(meteoraRaw, &cat.Meteora); err != nil {
		return nil, err
	}
	return cat, nil
}

// Result is everything the rest of the process needs once bootstrap
// completes: the frozen registry, the two topologically-identical
// graphs, and the chain index.
type Result struct {
	Registry       *registry.Registry
	TentativeGraph *poolgraph.Graph
	ConfirmedGraph *poolgraph.Graph
	Index          *chains.Index
}

// Build turns parsed catalogues into the frozen registry/graph/index
// triple (C3 populate, then C4 seed, then C5/C6). minTVL, pivot, and the
// chain-length bounds are caller-supplied (config §6). minChainLength
// and maxChainLength (defaults 3, 5) are passed unchanged to
// chains.Enumerate as minHops and maxHops: the short cycles have
// minChainLength hops and the long cycles maxChainLength tokens
// (maxChainLength-1 hops).
func Build(cat *Catalogs, minTVL float64, initialTokens []string, pivot string, minChainLength, maxChainLength int) (*Result, error) {
	logger := log.Root()
	reg := registry.New()

	for _, t := range cat.Tokens {
		addr, err := registry.DecodeAddress(t.Address)
		if err != nil {
			logger.Warn("bootstrap: skipping malformed token address", "symbol", t.Symbol)
			continue
		}
		reg.AddToken(t.Symbol, addr)
	}

	symbolByMint := make(map[string]string, len(cat.Tokens))
	for _, t := range cat.Tokens {
		symbolByMint[t.Address] = t.Symbol
	}

	registerPools := func(entries []PoolEntry, dex registry.DexKind) {
		for _, p := range entries {
			symA, okA := symbolByMint[p.MintA]
			symB, okB := symbolByMint[p.MintB]
			if !okA || !okB {
				continue
			}
			tvl, err := p.TVL.Float64()
			if err != nil {
				continue
			}
			if tvl < minTVL {
				continue
			}
			addr, err := registry.DecodeAddress(p.Address)
			if err != nil {
				logger.Warn("bootstrap: skipping malformed pool address", "dex", dex.String())
				continue
			}
			if !reg.AddPool(symA, symB, addr, tvl, dex) {
				logger.Debug("bootstrap: pool rejected below MIN_TVL", "dex", dex.String(), "tvl", tvl)
			}
		}
	}
	registerPools(cat.Orca, registry.Orca)
	registerPools(cat.Raydium, registry.Raydium)
	registerPools(cat.Meteora, registry.Meteora)

	tentative := poolgraph.New()
	confirmed := poolgraph.New()
	validated := validatedTokens(reg, initialTokens)
	for _, symA := range validated {
		for _, symB := range validated {
			if symA >= symB {
				continue
			}
			for _, rec := range reg.PoolsForPair(symA, symB) {
				tentative.AddEdge(rec.Address, rec.Dex, rec.Pair.A, rec.Pair.B)
				confirmed.AddEdge(rec.Address, rec.Dex, rec.Pair.A, rec.Pair.B)
			}
		}
	}

	four, five := chains.Enumerate(validated, reg, pivot, minChainLength, maxChainLength)
	idx := chains.BuildIndex(four, five, reg)

	logger.Info("bootstrap: catalog build complete",
		"tokens", len(reg.Symbols()),
		"four_cycles", len(four),
		"five_cycles", len(five),
	)

	return &Result{
		Registry:       reg,
		TentativeGraph: tentative,
		ConfirmedGraph: confirmed,
		Index:          idx,
	}, nil
}

// validatedTokens returns the subset of the initial universe that has a
// pool in at least one DEX with at least one other validated token
// (§4.5 Input).
func validatedTokens(reg *registry.Registry, initialTokens []string) []string {
	var out []string
	for _, sym := range initialTokens {
		if _, ok := reg.TokenBySymbol(sym); !ok {
			continue
		}
		hasPartner := false
		for _, other := range initialTokens {
			if other == sym {
				continue
			}
			if reg.IsPairValid(sym, other) {
				hasPartner = true
				break
			}
		}
		if hasPartner {
			out = append(out, sym)
		}
	}
	return out
}
