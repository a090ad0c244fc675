// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ingest implements the dispatcher (C9): it receives raw
// account updates from external stream readers, checks them against the
// registry, decodes the payload, applies it to the relevant
// commitment-qualified pool state, updates the graph, and triggers the
// router.
package ingest

import (
	"context"

	log "github.com/luxfi/log"

	"github.com/luxfi/arbscan/codec"
	"github.com/luxfi/arbscan/errs"
	"github.com/luxfi/arbscan/metrics"
	"github.com/luxfi/arbscan/poolgraph"
	"github.com/luxfi/arbscan/poolstate"
	"github.com/luxfi/arbscan/registry"
	"github.com/luxfi/arbscan/router"
)

// EncodingBase64Zstd is the only data-encoding tag the dispatcher
// accepts (§6); an empty tag is treated as this one, and any other tag
// is dropped with an UnsupportedEncoding warning.
const EncodingBase64Zstd = "base64+zstd"

// RawUpdate is one stream's account update, prior to decode.
type RawUpdate struct {
	Slot       uint64
	Pool       registry.Address
	Payload    string
	Encoding   string
	Commitment poolstate.Commitment
	Dex        registry.DexKind
}

// StreamSource is the minimal external-collaborator shape an upstream
// websocket transport must satisfy. Reconnect policy belongs to the
// implementation of this interface, not to the dispatcher.
type StreamSource interface {
	Updates() <-chan RawUpdate
	Slots() <-chan SlotInfo
}

// Stores is the set of per-DEX, per-commitment sharded pool-state maps
// the dispatcher writes into.
type Stores struct {
	Tentative [3]*poolstate.ShardedStore // indexed by registry.DexKind
	Confirmed [3]*poolstate.ShardedStore
}

// NewStores allocates an empty set of stores for all three DEX families
// and both commitment levels.
func NewStores() *Stores {
	s := &Stores{}
	for i := range s.Tentative {
		s.Tentative[i] = poolstate.NewShardedStore()
		s.Confirmed[i] = poolstate.NewShardedStore()
	}
	return s
}

func (s *Stores) storeFor(dex registry.DexKind, commitment poolstate.Commitment) *poolstate.ShardedStore {
	if commitment == poolstate.Confirmed {
		return s.Confirmed[dex]
	}
	return s.Tentative[dex]
}

// Dispatcher wires the registry, stores, dual graphs, and router engine
// together for a single ingest pipeline (C9).
type Dispatcher struct {
	Registry *registry.Registry
	Stores   *Stores

	TentativeGraph *poolgraph.Graph
	ConfirmedGraph *poolgraph.Graph

	Router *router.Engine
	State  *NetworkState

	// Metrics is optional; when set, decode/stale-slot/apply paths below
	// report through it.
	Metrics *metrics.Registry

	// StrictSlot enables scenario 6's strict-drop behavior: an update
	// whose slot is not newer than the stored slot for the same
	// pool+commitment is dropped. The source's validator always
	// returns true; strict is the spec's recommended-but-not-required
	// default.
	StrictSlot bool

	logger log.Logger
}

// NewDispatcher wires a dispatcher from its dependencies.
func NewDispatcher(reg *registry.Registry, stores *Stores, tentative, confirmed *poolgraph.Graph, eng *router.Engine) *Dispatcher {
	return &Dispatcher{
		Registry:       reg,
		Stores:         stores,
		TentativeGraph: tentative,
		ConfirmedGraph: confirmed,
		Router:         eng,
		State:          NewNetworkState(),
		StrictSlot:     true,
		logger:         log.Root(),
	}
}

func (d *Dispatcher) graphFor(commitment poolstate.Commitment) *poolgraph.Graph {
	if commitment == poolstate.Confirmed {
		return d.ConfirmedGraph
	}
	return d.TentativeGraph
}

// HandleUpdate runs one account update through existence check, decode,
// pool-state reconciliation, graph update, and router trigger (C9).
func (d *Dispatcher) HandleUpdate(u RawUpdate) error {
	if u.Encoding != "" && u.Encoding != EncodingBase64Zstd {
		d.logger.Warn("ingest: unsupported encoding", "encoding", u.Encoding, "pool", u.Pool.String())
		return errs.ErrUnsupportedEncoding
	}
	if !d.Registry.Exists(u.Dex, u.Pool) {
		return errs.ErrUnknownPool
	}

	fresh, err := codec.Decode(u.Payload, u.Dex, u.Pool)
	if err != nil {
		d.logger.Error("ingest: decode failed", "error", err, "pool", u.Pool.String(), "dex", u.Dex.String())
		if d.Metrics != nil {
			d.Metrics.DecodeErrorsTotal.WithLabelValues(u.Dex.String()).Inc()
		}
		return err
	}

	store := d.Stores.storeFor(u.Dex, u.Commitment)
	makeEmpty := func() poolstate.State { return emptyStateFor(u.Dex, u.Pool) }

	_, changed, accepted := store.Apply(u.Pool, u.Slot, d.StrictSlot, makeEmpty, fresh)
	if !accepted {
		d.logger.Debug("ingest: stale slot dropped", "pool", u.Pool.String(), "slot", u.Slot)
		if d.Metrics != nil {
			d.Metrics.StaleSlotDropsTotal.WithLabelValues(u.Dex.String()).Inc()
		}
		return errs.ErrStaleSlot
	}
	if d.Metrics != nil {
		d.Metrics.PoolUpdatesTotal.WithLabelValues(u.Dex.String(), u.Commitment.String()).Inc()
	}
	if !changed {
		return nil
	}

	entry, _ := store.Get(u.Pool)
	derived := entry.State.Derive()
	edgeMetrics := poolgraph.Metrics{
		Price:     derived.Price,
		FeeRate:   derived.FeeRate,
		Liquidity: derived.Liquidity,
		Weight:    derived.Weight,
		Active:    derived.Active,
	}

	g := d.graphFor(u.Commitment)
	g.UpdateMetrics(u.Pool, edgeMetrics, u.Slot)

	if d.Router != nil {
		d.Router.OnPoolUpdated(u.Pool)
	}
	return nil
}

func emptyStateFor(dex registry.DexKind, addr registry.Address) poolstate.State {
	switch dex {
	case registry.Orca:
		return poolstate.NewOrcaState(addr)
	case registry.Raydium:
		return poolstate.NewRaydiumState(addr)
	default:
		return poolstate.NewMeteoraState(addr)
	}
}

// Run consumes source's update and slot channels until ctx is canceled.
// Ingest tasks have no timeout (§5); cancellation is best-effort and
// does not flush in-flight updates.
func (d *Dispatcher) Run(ctx context.Context, source StreamSource) {
	updates := source.Updates()
	slots := source.Slots()
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if err := d.HandleUpdate(u); err != nil {
				// Errors are already logged at the appropriate level by
				// HandleUpdate/codec; the dispatcher never blocks other
				// streams on a single bad update.
				continue
			}
		case s, ok := <-slots:
			if !ok {
				slots = nil
				continue
			}
			d.State.Observe(s)
		}
	}
}
