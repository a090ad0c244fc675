// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolstate

import (
	"github.com/luxfi/arbscan/pricing"
	"github.com/luxfi/arbscan/registry"
)

// OrcaState is the concentrated-liquidity AMM family variant.
type OrcaState struct {
	address registry.Address

	Liquidity          uint64
	SqrtPriceX64       uint64
	TickCurrent        int32
	TickSpacing        uint16
	PriceThreshold     uint64
	FeeRateBps         uint16
	ProtocolFeeRateBps uint16
	FeeGrowthA         uint64
	FeeGrowthB         uint64
	ProtocolFeeOwedA   uint64
	ProtocolFeeOwedB   uint64

	TokenMintA registry.Address
	TokenMintB registry.Address
	TokenVaultA registry.Address
	TokenVaultB registry.Address

	// LastSlot is diagnostic-only: it never forces Update to return true.
	LastSlot uint64
}

// NewOrcaState constructs an empty state for the given pool address.
func NewOrcaState(addr registry.Address) *OrcaState {
	return &OrcaState{address: addr}
}

func (s *OrcaState) Address() registry.Address { return s.address }

// Update compares the meaningful fields enumerated in §4.2 for the
// concentrated AMM family: liquidity, sqrt price, tick, price threshold,
// fee rate, protocol fee rate, fee growth A/B, protocol fee owed A/B,
// and the mint/vault addresses that determine activity.
func (s *OrcaState) Update(freshState State) bool {
	fresh, ok := freshState.(*OrcaState)
	if !ok {
		return false
	}
	changed := s.Liquidity != fresh.Liquidity ||
		s.SqrtPriceX64 != fresh.SqrtPriceX64 ||
		s.TickCurrent != fresh.TickCurrent ||
		s.PriceThreshold != fresh.PriceThreshold ||
		s.FeeRateBps != fresh.FeeRateBps ||
		s.ProtocolFeeRateBps != fresh.ProtocolFeeRateBps ||
		s.FeeGrowthA != fresh.FeeGrowthA ||
		s.FeeGrowthB != fresh.FeeGrowthB ||
		s.ProtocolFeeOwedA != fresh.ProtocolFeeOwedA ||
		s.ProtocolFeeOwedB != fresh.ProtocolFeeOwedB ||
		s.TokenMintA != fresh.TokenMintA ||
		s.TokenMintB != fresh.TokenMintB ||
		s.TokenVaultA != fresh.TokenVaultA ||
		s.TokenVaultB != fresh.TokenVaultB ||
		s.TickSpacing != fresh.TickSpacing

	// LastSlot is a diagnostic counter: always refreshed, never forces
	// changed.
	s.LastSlot = fresh.LastSlot

	if !changed {
		return false
	}
	s.Liquidity = fresh.Liquidity
	s.SqrtPriceX64 = fresh.SqrtPriceX64
	s.TickCurrent = fresh.TickCurrent
	s.TickSpacing = fresh.TickSpacing
	s.PriceThreshold = fresh.PriceThreshold
	s.FeeRateBps = fresh.FeeRateBps
	s.ProtocolFeeRateBps = fresh.ProtocolFeeRateBps
	s.FeeGrowthA = fresh.FeeGrowthA
	s.FeeGrowthB = fresh.FeeGrowthB
	s.ProtocolFeeOwedA = fresh.ProtocolFeeOwedA
	s.ProtocolFeeOwedB = fresh.ProtocolFeeOwedB
	s.TokenMintA = fresh.TokenMintA
	s.TokenMintB = fresh.TokenMintB
	s.TokenVaultA = fresh.TokenVaultA
	s.TokenVaultB = fresh.TokenVaultB
	return true
}

func (s *OrcaState) active() bool {
	if s.TokenMintA.IsZero() || s.TokenMintB.IsZero() {
		return false
	}
	if s.TokenVaultA.IsZero() || s.TokenVaultB.IsZero() {
		return false
	}
	return true
}

func (s *OrcaState) Derive() Derived {
	price := pricing.ConcentratedPrice(s.SqrtPriceX64)
	feeRate := pricing.FeeRateBps(uint32(s.FeeRateBps))
	liquidity := float64(s.Liquidity)
	w0 := pricing.BaseWeight(price, feeRate, liquidity)
	weight := pricing.ConcentratedWeight(w0, float64(s.TickSpacing))
	return Derived{
		Price:     price,
		FeeRate:   feeRate,
		Liquidity: liquidity,
		Weight:    weight,
		Active:    s.active(),
	}
}
