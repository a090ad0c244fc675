// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pricing implements the price, fee, and weight formulas shared by
// the three DEX families. Every function is pure; all but
// ConcentratedPrice, which builds uint256 and big.Float intermediates,
// are allocation-free.
package pricing

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// twoPow128 is the fixed-point scale of a Q64.64 square-root price
// squared; computed once since it never changes.
var twoPow128 = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 128))

// ConcentratedPrice converts a Q64.64 square-root price into a plain
// double, matching the Orca-style and Meteora-style layouts:
// price = sqrtPrice^2 / 2^128. The square is computed as an exact
// 256-bit integer via uint256 rather than float64*float64 — sqrtPriceX64
// can approach 2^64, and squaring that directly in float64 only keeps
// ~15-17 significant digits versus the full 128-bit product, which
// matters once the division by 2^128 is taken back down to a price near
// 1.0 where low bits of the square dominate the result.
func ConcentratedPrice(sqrtPriceX64 uint64) float64 {
	sp := uint256.NewInt(sqrtPriceX64)
	sq := new(uint256.Int).Mul(sp, sp)

	num := new(big.Float).SetInt(sq.ToBig())
	price := new(big.Float).Quo(num, twoPow128)
	out, _ := price.Float64()
	return out
}

// OrderBookPrice is the Raydium-style midpoint price.
func OrderBookPrice(minPrice, maxPrice float64) float64 {
	return (minPrice + maxPrice) / 2
}

// FeeRateBps converts an integer basis-point fee into a fraction.
func FeeRateBps(feeBps uint32) float64 {
	return float64(feeBps) / 10_000.0
}

// FeeRateRatio computes numerator/denominator, returning 0 when the
// denominator is 0 (matches the order-book family's fee-free default).
func FeeRateRatio(numerator, denominator uint64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// BaseWeight computes the common w0 term shared by all three families.
func BaseWeight(price, feeRate, liquidity float64) float64 {
	liquidityFactor := math.Min(liquidity/1e6, 1)
	return price * (1 - feeRate) * liquidityFactor
}

// ConcentratedWeight applies the Orca-style tick-spacing discount.
func ConcentratedWeight(w0 float64, tickSpacing float64) float64 {
	return w0 * (1 - math.Min(tickSpacing/100, 0.5))
}

// OrderBookWeight applies the Raydium-style depth bonus.
func OrderBookWeight(w0, depth float64) float64 {
	return w0 * (1 + math.Min(depth/1e6, 1))
}

// DynamicWeight applies the Meteora-style multiplier bonus.
func DynamicWeight(w0, multiplier float64) float64 {
	return w0 * (1 + math.Min(multiplier/100, 2))
}

// SwapResult is the outcome of simulating one hop of a notional swap.
type SwapResult struct {
	Fee            float64
	Net            float64
	Slippage       float64
	EffectivePrice float64
	AmountOut      float64
}

// MaxSlippage caps the slippage term applied in SimulateSwap.
const MaxSlippage = 0.02

// SimulateSwap runs the fee/slippage model from the arbitrage simulator:
// fee = amountIn*feeRate, net = amountIn-fee, slip = min(net/liquidity,
// MaxSlippage), effectivePrice = price*(1-slip), amountOut = net*effectivePrice.
func SimulateSwap(amountIn, price, feeRate, liquidity float64) SwapResult {
	fee := amountIn * feeRate
	net := amountIn - fee
	var slip float64
	if liquidity > 0 {
		slip = math.Min(net/liquidity, MaxSlippage)
	} else {
		slip = MaxSlippage
	}
	effective := price * (1 - slip)
	return SwapResult{
		Fee:            fee,
		Net:            net,
		Slippage:       slip,
		EffectivePrice: effective,
		AmountOut:      net * effective,
	}
}

// WeightLess reports whether a is a worse router weight than b, treating
// NaN as negative infinity per the router's numerical policy.
func WeightLess(a, b float64) bool {
	an := normalizeWeight(a)
	bn := normalizeWeight(b)
	return an < bn
}

func normalizeWeight(w float64) float64 {
	if math.IsNaN(w) {
		return math.Inf(-1)
	}
	return w
}
