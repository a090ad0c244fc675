// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingest

import (
	"sync"
	"time"

	log "github.com/luxfi/log"

	"github.com/luxfi/arbscan/metrics"
)

// SlotInfo is the confirmed-only slot notification stream payload.
type SlotInfo struct {
	Slot   uint64
	Parent uint64
	Root   uint64
}

// maxSlotGap and maxWallClockGap are the staleness thresholds from §5:
// a gap beyond either logs a warning (not a rejection — the upstream
// slot-consistency validator this mirrors always returns true).
const (
	maxSlotGap      = 1
	maxWallClockGap = time.Second
)

// NetworkState tracks the last observed slot notification and emits a
// staleness warning when either the wall-clock or slot gap between
// consecutive notifications is large, mirroring update_network_state
// from the reference implementation.
type NetworkState struct {
	mu sync.Mutex

	lastSlot uint64
	lastSeen time.Time
	hasSeen  bool

	// Metrics is optional; when set, staleness detections increment
	// NetworkStalenessGaps.
	Metrics *metrics.Registry

	logger log.Logger
}

// NewNetworkState returns a tracker with no prior observation.
func NewNetworkState() *NetworkState {
	return &NetworkState{logger: log.Root()}
}

// Observe records a new slot notification and warns on staleness.
func (n *NetworkState) Observe(info SlotInfo) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := time.Now()
	if n.hasSeen {
		wallGap := now.Sub(n.lastSeen)
		var slotGap uint64
		if info.Slot > n.lastSlot {
			slotGap = info.Slot - n.lastSlot
		}
		if wallGap > maxWallClockGap || slotGap > maxSlotGap {
			n.logger.Warn("ingest: network state staleness detected",
				"wall_clock_gap_ms", wallGap.Milliseconds(),
				"slot_gap", slotGap,
				"slot", info.Slot,
			)
			if n.Metrics != nil {
				n.Metrics.NetworkStalenessGaps.Inc()
			}
		}
	}
	n.lastSlot = info.Slot
	n.lastSeen = now
	n.hasSeen = true
}

// LastSlot returns the most recently observed slot.
func (n *NetworkState) LastSlot() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastSlot
}
