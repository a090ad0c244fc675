// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry holds the token, token-pair, and pool-address tables
// populated once during bootstrap and then read by the rest of the
// scanner for the lifetime of the process (C3).
package registry

import (
	"sync"

	"github.com/mr-tron/base58"

	"github.com/luxfi/arbscan/errs"
)

// DexKind identifies one of the three supported pool families. Iteration
// order (Orca, Raydium, Meteora) is part of the router's tie-break rule
// and must not be reordered.
type DexKind int

const (
	Orca DexKind = iota
	Raydium
	Meteora
	dexKindCount
)

func (k DexKind) String() string {
	switch k {
	case Orca:
		return "orca"
	case Raydium:
		return "raydium"
	case Meteora:
		return "meteora"
	default:
		return "unknown"
	}
}

// Address is the 32-byte account identifier shared by tokens and pools.
type Address [32]byte

// DecodeAddress parses a base58-encoded address, the wire format used by
// the token and pool bootstrap catalogues.
func DecodeAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, errs.ErrCatalogMalformed
	}
	if len(raw) != len(a) {
		return a, errs.ErrCatalogMalformed
	}
	copy(a[:], raw)
	return a, nil
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero reports whether the address is the all-zero sentinel used by
// every DEX family to mean "absent".
func (a Address) IsZero() bool {
	return a == Address{}
}

// Token is a registered symbol/address pair. Lifetime = process.
type Token struct {
	Symbol  string
	Address Address
}

// TokenPair is an unordered pair canonicalized so A.Symbol < B.Symbol.
type TokenPair struct {
	A, B string
}

func canonicalPair(a, b string) TokenPair {
	if a <= b {
		return TokenPair{A: a, B: b}
	}
	return TokenPair{A: b, B: a}
}

// PoolRecord is one registered pool: its address, DEX family, and the
// TVL observed at registration time.
type PoolRecord struct {
	Address Address
	Dex     DexKind
	TVL     float64
	Pair    TokenPair
}

// MinTVL is the default registration floor (§6 MIN_TVL).
const MinTVL = 100_000.0

// existenceTable is the per-DEX dense index allocator plus occupancy
// bitmap described in §4.3: exists(dex, addr) is O(1), removal flips a
// bit rather than compacting the slice.
type existenceTable struct {
	index    map[Address]int
	occupied []bool
}

func newExistenceTable() *existenceTable {
	return &existenceTable{index: make(map[Address]int)}
}

func (t *existenceTable) insert(addr Address) {
	if _, ok := t.index[addr]; ok {
		return
	}
	idx := len(t.occupied)
	t.occupied = append(t.occupied, true)
	t.index[addr] = idx
}

func (t *existenceTable) remove(addr Address) {
	idx, ok := t.index[addr]
	if !ok {
		return
	}
	t.occupied[idx] = false
}

func (t *existenceTable) exists(addr Address) bool {
	idx, ok := t.index[addr]
	if !ok {
		return false
	}
	return t.occupied[idx]
}

// Registry is the bootstrap-populated token/pair/pool catalogue. It is
// read-mostly: all writes happen during bootstrap, after which the rest
// of the process only reads (§5 Shared-resource policy).
type Registry struct {
	mu sync.RWMutex

	symbols map[string]*Token
	byAddr  map[Address]*Token

	pairs map[TokenPair]struct{}
	pools map[TokenPair][]*PoolRecord

	existence [dexKindCount]*existenceTable
	byDexAddr map[DexKind]map[Address]*PoolRecord
}

// New returns an empty Registry ready for bootstrap population.
func New() *Registry {
	r := &Registry{
		symbols:   make(map[string]*Token),
		byAddr:    make(map[Address]*Token),
		pairs:     make(map[TokenPair]struct{}),
		pools:     make(map[TokenPair][]*PoolRecord),
		byDexAddr: make(map[DexKind]map[Address]*PoolRecord),
	}
	for k := DexKind(0); k < dexKindCount; k++ {
		r.existence[k] = newExistenceTable()
		r.byDexAddr[k] = make(map[Address]*PoolRecord)
	}
	return r
}

// AddToken is an idempotent insert into both the symbol and address
// tables.
func (r *Registry) AddToken(symbol string, addr Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.symbols[symbol]; ok {
		existing.Address = addr
		r.byAddr[addr] = existing
		return
	}
	tok := &Token{Symbol: symbol, Address: addr}
	r.symbols[symbol] = tok
	r.byAddr[addr] = tok
}

// AddPair canonicalizes and inserts the pair if both tokens resolve.
// Returns false if either symbol is unknown.
func (r *Registry) AddPair(symA, symB string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.symbols[symA]; !ok {
		return false
	}
	if _, ok := r.symbols[symB]; !ok {
		return false
	}
	r.pairs[canonicalPair(symA, symB)] = struct{}{}
	return true
}

// AddPool rejects pools below MinTVL or naming an unknown symbol; on
// acceptance it appends to the pair bucket and the DEX existence table.
func (r *Registry) AddPool(symA, symB string, addr Address, tvl float64, dex DexKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tvl < MinTVL {
		return false
	}
	if _, ok := r.symbols[symA]; !ok {
		return false
	}
	if _, ok := r.symbols[symB]; !ok {
		return false
	}
	pair := canonicalPair(symA, symB)
	r.pairs[pair] = struct{}{}
	rec := &PoolRecord{Address: addr, Dex: dex, TVL: tvl, Pair: pair}
	r.pools[pair] = append(r.pools[pair], rec)
	r.existence[dex].insert(addr)
	r.byDexAddr[dex][addr] = rec
	return true
}

// RemovePool flips the existence bitmap off without compacting storage,
// matching the original lookup table's removal semantics.
func (r *Registry) RemovePool(dex DexKind, addr Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.existence[dex].remove(addr)
}

// Exists reports whether (dex, addr) is a live registered pool (P1/P2).
func (r *Registry) Exists(dex DexKind, addr Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.existence[dex].exists(addr)
}

// FindPoolBySymbols tries both orderings and returns the first pool in
// the pair's bucket for the given DEX, or false if none exists.
func (r *Registry) FindPoolBySymbols(dex DexKind, symA, symB string) (Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pair := canonicalPair(symA, symB)
	for _, rec := range r.pools[pair] {
		if rec.Dex == dex && r.existence[dex].exists(rec.Address) {
			return rec.Address, true
		}
	}
	return Address{}, false
}

// PoolsForPair returns every registered pool (any DEX) for an unordered
// symbol pair, used by the graph builder to insert one edge per pool.
func (r *Registry) PoolsForPair(symA, symB string) []*PoolRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pair := canonicalPair(symA, symB)
	out := make([]*PoolRecord, len(r.pools[pair]))
	copy(out, r.pools[pair])
	return out
}

// IsPairValid reports whether any DEX has a registered pool for the pair.
func (r *Registry) IsPairValid(symA, symB string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pair := canonicalPair(symA, symB)
	return len(r.pools[pair]) > 0
}

// TokenBySymbol looks up a registered token by symbol.
func (r *Registry) TokenBySymbol(symbol string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.symbols[symbol]
	if !ok {
		return Token{}, false
	}
	return *t, true
}

// TokenByAddress looks up a registered token by address.
func (r *Registry) TokenByAddress(addr Address) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byAddr[addr]
	if !ok {
		return Token{}, false
	}
	return *t, true
}

// PoolByAddress looks up a registered pool record within one DEX family.
func (r *Registry) PoolByAddress(dex DexKind, addr Address) (PoolRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byDexAddr[dex][addr]
	if !ok {
		return PoolRecord{}, false
	}
	return *rec, true
}

// Symbols returns every registered token symbol. Order is unspecified.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	return out
}
