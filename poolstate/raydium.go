// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolstate

import (
	"github.com/luxfi/arbscan/pricing"
	"github.com/luxfi/arbscan/registry"
)

// RaydiumState is the order-book AMM family variant.
type RaydiumState struct {
	address registry.Address

	Status        uint64
	PoolState     uint64
	TotalLP       uint64
	MinPrice      float64
	MaxPrice      float64
	OrdersCount   uint64
	Depth         float64
	BaseNeedTake  uint64
	QuoteNeedTake uint64
	FeeNumerator  uint64
	FeeDenominator uint64
	OpenTime      uint64

	BaseMint  registry.Address
	QuoteMint registry.Address

	RecentSlot uint64
}

func NewRaydiumState(addr registry.Address) *RaydiumState {
	return &RaydiumState{address: addr}
}

func (s *RaydiumState) Address() registry.Address { return s.address }

// rawActive computes activity from the incoming (not-yet-stored) fields,
// per §4.2: status != 0 && pool_state != 0 && open_time != 0, and neither
// mint is the zero address.
func rawActive(status, poolState, openTime uint64, baseMint, quoteMint registry.Address) bool {
	if status == 0 || poolState == 0 || openTime == 0 {
		return false
	}
	if baseMint.IsZero() || quoteMint.IsZero() {
		return false
	}
	return true
}

// Update compares the order-book family's meaningful fields. Per §9's
// preserved quirk, the stored Status is forced to 0 whenever the
// incoming payload computes as inactive, even if fresh.Status != 0.
func (s *RaydiumState) Update(freshState State) bool {
	fresh, ok := freshState.(*RaydiumState)
	if !ok {
		return false
	}

	active := rawActive(fresh.Status, fresh.PoolState, fresh.OpenTime, fresh.BaseMint, fresh.QuoteMint)
	storedStatus := fresh.Status
	if !active {
		storedStatus = 0
	}

	changed := s.Status != storedStatus ||
		s.PoolState != fresh.PoolState ||
		s.TotalLP != fresh.TotalLP ||
		s.MinPrice != fresh.MinPrice ||
		s.MaxPrice != fresh.MaxPrice ||
		s.OrdersCount != fresh.OrdersCount ||
		s.Depth != fresh.Depth ||
		s.BaseNeedTake != fresh.BaseNeedTake ||
		s.QuoteNeedTake != fresh.QuoteNeedTake ||
		s.FeeNumerator != fresh.FeeNumerator ||
		s.FeeDenominator != fresh.FeeDenominator ||
		s.OpenTime != fresh.OpenTime ||
		s.BaseMint != fresh.BaseMint ||
		s.QuoteMint != fresh.QuoteMint ||
		s.RecentSlot != fresh.RecentSlot

	if !changed {
		return false
	}
	s.Status = storedStatus
	s.PoolState = fresh.PoolState
	s.TotalLP = fresh.TotalLP
	s.MinPrice = fresh.MinPrice
	s.MaxPrice = fresh.MaxPrice
	s.OrdersCount = fresh.OrdersCount
	s.Depth = fresh.Depth
	s.BaseNeedTake = fresh.BaseNeedTake
	s.QuoteNeedTake = fresh.QuoteNeedTake
	s.FeeNumerator = fresh.FeeNumerator
	s.FeeDenominator = fresh.FeeDenominator
	s.OpenTime = fresh.OpenTime
	s.BaseMint = fresh.BaseMint
	s.QuoteMint = fresh.QuoteMint
	s.RecentSlot = fresh.RecentSlot
	return true
}

func (s *RaydiumState) active() bool {
	return rawActive(s.Status, s.PoolState, s.OpenTime, s.BaseMint, s.QuoteMint)
}

func (s *RaydiumState) Derive() Derived {
	price := pricing.OrderBookPrice(s.MinPrice, s.MaxPrice)
	feeRate := pricing.FeeRateRatio(s.FeeNumerator, s.FeeDenominator)
	liquidity := float64(s.TotalLP)
	w0 := pricing.BaseWeight(price, feeRate, liquidity)
	weight := pricing.OrderBookWeight(w0, s.Depth)
	return Derived{
		Price:     price,
		FeeRate:   feeRate,
		Liquidity: liquidity,
		Weight:    weight,
		Active:    s.active(),
	}
}
