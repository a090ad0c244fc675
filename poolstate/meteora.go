// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolstate

import (
	"github.com/luxfi/arbscan/pricing"
	"github.com/luxfi/arbscan/registry"
)

// MeteoraState is the dynamic-liquidity AMM family variant.
type MeteoraState struct {
	address registry.Address

	Liquidity          uint64
	SqrtPriceX64       uint64
	TickCurrent        int32
	TickLower          int32
	TickUpper          int32
	FeeRateBps         uint16
	ProtocolFeeRateBps uint16
	FeeGrowthA         uint64
	FeeGrowthB         uint64
	DynamicMode        uint32
	LiquidityCap       uint64
	LiquidityMult      float64
	Volume24h          float64
	Fees24h            float64

	Authority registry.Address
	VaultA    registry.Address
	VaultB    registry.Address

	// LastSlot is diagnostic-only.
	LastSlot uint64
}

func NewMeteoraState(addr registry.Address) *MeteoraState {
	return &MeteoraState{address: addr}
}

func (s *MeteoraState) Address() registry.Address { return s.address }

func meteoraActive(authority, vaultA, vaultB registry.Address, dynamicMode uint32, liquidityCap uint64) bool {
	if authority.IsZero() || vaultA.IsZero() || vaultB.IsZero() {
		return false
	}
	if dynamicMode == 0 {
		return false
	}
	if liquidityCap == 0 {
		return false
	}
	return true
}

// Update compares the dynamic-liquidity family's meaningful fields per
// §4.2.
func (s *MeteoraState) Update(freshState State) bool {
	fresh, ok := freshState.(*MeteoraState)
	if !ok {
		return false
	}
	changed := s.Liquidity != fresh.Liquidity ||
		s.SqrtPriceX64 != fresh.SqrtPriceX64 ||
		s.TickCurrent != fresh.TickCurrent ||
		s.TickLower != fresh.TickLower ||
		s.TickUpper != fresh.TickUpper ||
		s.FeeRateBps != fresh.FeeRateBps ||
		s.ProtocolFeeRateBps != fresh.ProtocolFeeRateBps ||
		s.FeeGrowthA != fresh.FeeGrowthA ||
		s.FeeGrowthB != fresh.FeeGrowthB ||
		s.DynamicMode != fresh.DynamicMode ||
		s.LiquidityCap != fresh.LiquidityCap ||
		s.LiquidityMult != fresh.LiquidityMult ||
		s.Authority != fresh.Authority ||
		s.VaultA != fresh.VaultA ||
		s.VaultB != fresh.VaultB ||
		s.Volume24h != fresh.Volume24h ||
		s.Fees24h != fresh.Fees24h

	// LastSlot is diagnostic-only.
	s.LastSlot = fresh.LastSlot

	if !changed {
		return false
	}
	s.Liquidity = fresh.Liquidity
	s.SqrtPriceX64 = fresh.SqrtPriceX64
	s.TickCurrent = fresh.TickCurrent
	s.TickLower = fresh.TickLower
	s.TickUpper = fresh.TickUpper
	s.FeeRateBps = fresh.FeeRateBps
	s.ProtocolFeeRateBps = fresh.ProtocolFeeRateBps
	s.FeeGrowthA = fresh.FeeGrowthA
	s.FeeGrowthB = fresh.FeeGrowthB
	s.DynamicMode = fresh.DynamicMode
	s.LiquidityCap = fresh.LiquidityCap
	s.LiquidityMult = fresh.LiquidityMult
	s.Authority = fresh.Authority
	s.VaultA = fresh.VaultA
	s.VaultB = fresh.VaultB
	s.Volume24h = fresh.Volume24h
	s.Fees24h = fresh.Fees24h
	return true
}

func (s *MeteoraState) active() bool {
	return meteoraActive(s.Authority, s.VaultA, s.VaultB, s.DynamicMode, s.LiquidityCap)
}

func (s *MeteoraState) Derive() Derived {
	price := pricing.ConcentratedPrice(s.SqrtPriceX64)
	feeRate := pricing.FeeRateBps(uint32(s.FeeRateBps))
	liquidity := float64(s.Liquidity)
	w0 := pricing.BaseWeight(price, feeRate, liquidity)
	weight := pricing.DynamicWeight(w0, s.LiquidityMult)
	return Derived{
		Price:     price,
		FeeRate:   feeRate,
		Liquidity: liquidity,
		Weight:    weight,
		Active:    s.active(),
	}
}
