// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command arbscan is the composition root for the real-time arbitrage
// scanner: it loads configuration, runs bootstrap, wires the ingest
// dispatcher and router to both commitment-level graphs, and starts the
// arbitrage simulators. Websocket transport is supplied by whatever
// implements ingest.StreamSource; this binary ships a no-op stub so the
// module is self-contained without owning reconnect policy (§1 scope).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/luxfi/log"
	"github.com/spf13/pflag"

	"github.com/luxfi/arbscan/arbitrage"
	"github.com/luxfi/arbscan/bootstrap"
	"github.com/luxfi/arbscan/config"
	"github.com/luxfi/arbscan/ingest"
	"github.com/luxfi/arbscan/metrics"
	"github.com/luxfi/arbscan/poolstate"
	"github.com/luxfi/arbscan/router"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.Root()

	flags := pflag.NewFlagSet("arbscan", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to an optional YAML/JSON config file")
	tokensURL := flags.String("tokens-url", "", "override the token-list catalogue URL")
	orcaURL := flags.String("orca-url", "", "override the Orca pool catalogue URL")
	raydiumURL := flags.String("raydium-url", "", "override the Raydium pool catalogue URL")
	meteoraURL := flags.String("meteora-url", "", "override the Meteora pool catalogue URL")
	if err := flags.Parse(os.Args[1:]); err != nil {
		logger.Error("arbscan: flag parse failed", "error", err)
		return 1
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		logger.Error("arbscan: config load failed", "error", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loader := bootstrap.NewHTTPLoader()
	src := bootstrap.Sources{
		TokensURL:  firstNonEmpty(*tokensURL, cfg.TokensURL),
		OrcaURL:    firstNonEmpty(*orcaURL, cfg.OrcaURL),
		RaydiumURL: firstNonEmpty(*raydiumURL, cfg.RaydiumURL),
		MeteoraURL: firstNonEmpty(*meteoraURL, cfg.MeteoraURL),
	}

	cat, err := bootstrap.FetchAll(ctx, loader, src)
	if err != nil {
		logger.Error("arbscan: bootstrap catalog fetch failed", "error", err)
		return 1
	}

	result, err := bootstrap.Build(cat, cfg.MinTVL, cfg.InitialTokens, cfg.StartEndToken, cfg.MinChainLength, cfg.MaxChainLength)
	if err != nil {
		logger.Error("arbscan: bootstrap build failed", "error", err)
		return 1
	}
	logger.Info("arbscan: bootstrap complete",
		"tokens", len(result.Registry.Symbols()),
		"cycles", result.Index.Len(),
	)

	mtr := metrics.New()

	tentativeSim := arbitrage.New(result.TentativeGraph, opportunitySink(logger, mtr, poolstate.Tentative))
	confirmedSim := arbitrage.New(result.ConfirmedGraph, opportunitySink(logger, mtr, poolstate.Confirmed))

	onOpportunity := func(cycleID int, tokens []string, tentative, confirmed *router.ChainResult) {
		if tentative != nil {
			tentativeSim.Simulate(tokens, cfg.SimulationAmount)
		}
		if confirmed != nil {
			confirmedSim.Simulate(tokens, cfg.SimulationAmount)
		}
	}

	eng := router.New(result.TentativeGraph, result.ConfirmedGraph, result.Index, cfg.InitialBalance, onOpportunity)
	eng.Metrics = mtr

	stores := ingest.NewStores()
	dispatcher := ingest.NewDispatcher(result.Registry, stores, result.TentativeGraph, result.ConfirmedGraph, eng)
	dispatcher.StrictSlot = cfg.StrictSlot
	dispatcher.Metrics = mtr
	dispatcher.State.Metrics = mtr

	logger.Info("arbscan: starting ingest loop",
		"four_cycles", result.Index.FourCount,
		"five_cycles", result.Index.Len()-result.Index.FourCount,
	)
	dispatcher.Run(ctx, noopStreamSource())

	logger.Info("arbscan: shutdown complete")
	return 0
}

// opportunitySink logs and counts positive-profit opportunities emitted
// by a simulator bound to one commitment level's graph.
func opportunitySink(logger log.Logger, mtr *metrics.Registry, commitment poolstate.Commitment) arbitrage.Sink {
	return func(opp arbitrage.Opportunity) {
		mtr.OpportunitiesFound.Inc()
		mtr.OpportunitiesProfit.Observe(opp.Profit)
		logger.Info("arbscan: arbitrage opportunity",
			"commitment", commitment.String(),
			"chain", opp.Chain,
			"total_return", opp.TotalReturn,
			"profit", opp.Profit,
		)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// noopStreamSource returns a StreamSource with closed channels: arbscan
// is a library-first scanner (§1) whose websocket transport is supplied
// by an external collaborator. This stub lets the composition root run
// end to end against bootstrap data alone when no transport is wired.
func noopStreamSource() ingest.StreamSource { return closedSource{} }

type closedSource struct{}

func (closedSource) Updates() <-chan ingest.RawUpdate {
	ch := make(chan ingest.RawUpdate)
	close(ch)
	return ch
}

func (closedSource) Slots() <-chan ingest.SlotInfo {
	ch := make(chan ingest.SlotInfo)
	close(ch)
	return ch
}
