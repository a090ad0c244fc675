// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingest

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/arbscan/codec"
	"github.com/luxfi/arbscan/metrics"
	"github.com/luxfi/arbscan/poolgraph"
	"github.com/luxfi/arbscan/poolstate"
	"github.com/luxfi/arbscan/registry"
	"github.com/luxfi/arbscan/router"
)

func addrOf(b byte) registry.Address {
	var a registry.Address
	a[0] = b
	return a
}

func encodeOrcaPayload(t *testing.T, liquidity uint64) string {
	t.Helper()
	raw := make([]byte, codec.OrcaLayoutSize)
	raw[0] = 1
	raw[32] = 2
	raw[64] = 3
	raw[96] = 4
	binary.LittleEndian.PutUint64(raw[128:136], liquidity)
	binary.LittleEndian.PutUint64(raw[136:144], 1<<32)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(raw, nil)
	require.NoError(t, enc.Close())
	return base64.StdEncoding.EncodeToString(compressed)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, registry.Address) {
	t.Helper()
	reg := registry.New()
	reg.AddToken("SOL", addrOf(100))
	reg.AddToken("USDC", addrOf(101))
	pool := addrOf(1)
	require.True(t, reg.AddPool("SOL", "USDC", pool, 200_000, registry.Orca))

	stores := NewStores()
	tg := poolgraph.New()
	cg := poolgraph.New()
	tg.AddEdge(pool, registry.Orca, "SOL", "USDC")
	cg.AddEdge(pool, registry.Orca, "SOL", "USDC")

	eng := router.New(tg, cg, nil, 1_000, nil)
	d := NewDispatcher(reg, stores, tg, cg, eng)
	return d, pool
}

func TestHandleUpdateUnknownPoolDropped(t *testing.T) {
	d, _ := newTestDispatcher(t)
	err := d.HandleUpdate(RawUpdate{
		Pool:       addrOf(99),
		Dex:        registry.Orca,
		Commitment: poolstate.Tentative,
		Payload:    encodeOrcaPayload(t, 100),
	})
	require.Error(t, err)
}

func TestHandleUpdateAppliesAndUpdatesGraph(t *testing.T) {
	d, pool := newTestDispatcher(t)
	err := d.HandleUpdate(RawUpdate{
		Slot:       10,
		Pool:       pool,
		Dex:        registry.Orca,
		Commitment: poolstate.Tentative,
		Payload:    encodeOrcaPayload(t, 5_000_000),
	})
	require.NoError(t, err)

	edges := d.TentativeGraph.EdgesBetween("SOL", "USDC")
	require.Len(t, edges, 1)
	require.True(t, edges[0].Active)
	require.Equal(t, uint64(10), edges[0].LastUpdateSlot)
}

func TestHandleUpdateRejectsUnsupportedEncoding(t *testing.T) {
	d, pool := newTestDispatcher(t)
	err := d.HandleUpdate(RawUpdate{
		Pool:       pool,
		Dex:        registry.Orca,
		Commitment: poolstate.Tentative,
		Encoding:   "raw",
		Payload:    "irrelevant",
	})
	require.Error(t, err)
}

func TestHandleUpdateStrictSlotDrop(t *testing.T) {
	d, pool := newTestDispatcher(t)
	require.NoError(t, d.HandleUpdate(RawUpdate{
		Slot: 100, Pool: pool, Dex: registry.Orca, Commitment: poolstate.Tentative,
		Payload: encodeOrcaPayload(t, 1),
	}))
	err := d.HandleUpdate(RawUpdate{
		Slot: 99, Pool: pool, Dex: registry.Orca, Commitment: poolstate.Tentative,
		Payload: encodeOrcaPayload(t, 2),
	})
	require.Error(t, err)
}

func TestHandleUpdateIncrementsPoolUpdatesMetric(t *testing.T) {
	d, pool := newTestDispatcher(t)
	mtr := metrics.New()
	d.Metrics = mtr

	require.NoError(t, d.HandleUpdate(RawUpdate{
		Slot: 1, Pool: pool, Dex: registry.Orca, Commitment: poolstate.Tentative,
		Payload: encodeOrcaPayload(t, 5_000_000),
	}))

	require.Equal(t, float64(1), testutil.ToFloat64(mtr.PoolUpdatesTotal.WithLabelValues("orca", "tentative")))
}

func TestHandleUpdateStaleSlotIncrementsMetric(t *testing.T) {
	d, pool := newTestDispatcher(t)
	mtr := metrics.New()
	d.Metrics = mtr

	require.NoError(t, d.HandleUpdate(RawUpdate{
		Slot: 100, Pool: pool, Dex: registry.Orca, Commitment: poolstate.Tentative,
		Payload: encodeOrcaPayload(t, 1),
	}))
	require.Error(t, d.HandleUpdate(RawUpdate{
		Slot: 99, Pool: pool, Dex: registry.Orca, Commitment: poolstate.Tentative,
		Payload: encodeOrcaPayload(t, 2),
	}))

	require.Equal(t, float64(1), testutil.ToFloat64(mtr.StaleSlotDropsTotal.WithLabelValues("orca")))
}
