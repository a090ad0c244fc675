// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poolstate implements the per-DEX authoritative pool record (C2):
// one concrete type per DEX family, each able to detect whether a fresh
// decode carries a semantically meaningful change and to derive the
// price/fee/liquidity/weight/active tuple consumed by the graph and
// router.
package poolstate

import "github.com/luxfi/arbscan/registry"

// Derived is the price/fee/liquidity/weight/active snapshot a pool state
// produces for its graph edge after a meaningful update.
type Derived struct {
	Price     float64
	FeeRate   float64
	Liquidity float64
	Weight    float64
	Active    bool
}

// State is the capability set every DEX family variant must implement:
// update from a freshly decoded payload, and derive the edge metrics.
// This is the idiomatic Go substitute for the tagged union described in
// the design notes — one struct per family instead of an enum, dispatched
// statically through the interface rather than a type switch.
type State interface {
	// Update overwrites the receiver's fields from fresh if any
	// semantically meaningful field differs, returning true when it did.
	// Diagnostic-only fields (e.g. slot counters) may be copied
	// regardless of the return value.
	Update(fresh State) bool
	// Derive computes the edge metrics for the current field values.
	Derive() Derived
	// Address is the pool's on-chain account address.
	Address() registry.Address
}
