// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolstate

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/luxfi/arbscan/registry"
)

// Commitment distinguishes the tentative (low-latency) stream from the
// confirmed (finalized, authoritative) stream.
type Commitment int

const (
	Tentative Commitment = iota
	Confirmed
)

func (c Commitment) String() string {
	if c == Confirmed {
		return "confirmed"
	}
	return "tentative"
}

// Entry is a commitment-qualified pool record: base state plus the slot
// and wall-clock time it was last updated at.
type Entry struct {
	State      State
	Slot       uint64
	UpdateTime time.Time
}

const shardCount = 16

type shard struct {
	mu      sync.RWMutex
	entries map[registry.Address]*Entry
}

// ShardedStore is a concurrent map keyed by pool address, striped into
// shardCount independent shards so that writers to pools in different
// shards never contend with each other's lock; pools that hash to the
// same shard share its lock (§5: per-key serialization without a global
// lock). It holds one commitment level for one DEX family.
type ShardedStore struct {
	shards [shardCount]*shard
}

// NewShardedStore returns an empty store.
func NewShardedStore() *ShardedStore {
	s := &ShardedStore{}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[registry.Address]*Entry)}
	}
	return s
}

func (s *ShardedStore) shardFor(addr registry.Address) *shard {
	h := xxhash.Sum64(addr[:])
	return s.shards[h%shardCount]
}

// Get returns the current entry for addr, if any.
func (s *ShardedStore) Get(addr registry.Address) (*Entry, bool) {
	sh := s.shardFor(addr)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, ok := sh.entries[addr]
	return e, ok
}

// Apply runs update against the stored entry for addr (creating one via
// makeEmpty if absent), returning the resulting entry, whether the
// meaningful fields changed, and whether the slot was accepted.
//
// strictSlot, when true, rejects fresh data whose slot is not strictly
// newer than the currently stored slot for this pool+commitment
// (scenario 6, "stale slot").
func (s *ShardedStore) Apply(addr registry.Address, slot uint64, strictSlot bool, makeEmpty func() State, fresh State) (entry *Entry, changed bool, accepted bool) {
	sh := s.shardFor(addr)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[addr]
	if !ok {
		e = &Entry{State: makeEmpty()}
		sh.entries[addr] = e
	} else if strictSlot && slot <= e.Slot {
		return e, false, false
	}

	changed = e.State.Update(fresh)
	e.Slot = slot
	e.UpdateTime = time.Now()
	return e, changed, true
}

// Len returns the number of pools currently tracked (for diagnostics).
func (s *ShardedStore) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}
