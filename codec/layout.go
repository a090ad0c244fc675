// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec implements the base64+zstd wire decoder and the
// packed little-endian binary layouts for the three DEX families (C1).
package codec

// OrcaLayoutSize is the minimum byte length of a concentrated-liquidity
// pool account, matching the packed field order below. Offsets (bytes):
//
//	0   TokenMintA      [32]byte
//	32  TokenMintB      [32]byte
//	64  TokenVaultA     [32]byte
//	96  TokenVaultB     [32]byte
//	128 Liquidity       uint64
//	136 SqrtPriceX64    uint64
//	144 TickCurrent     int32
//	148 TickSpacing     uint16
//	150 FeeRateBps      uint16
//	152 ProtocolFeeRateBps uint16
//	154 _pad            uint16
//	156 PriceThreshold  uint64
//	164 FeeGrowthA      uint64
//	172 FeeGrowthB      uint64
//	180 ProtocolFeeOwedA uint64
//	188 ProtocolFeeOwedB uint64
//	196 LastSlot        uint64
const OrcaLayoutSize = 204

// RaydiumLayoutSize is the minimum byte length of an order-book pool
// account. Offsets (bytes):
//
//	0   BaseMint        [32]byte
//	32  QuoteMint       [32]byte
//	64  Status          uint64
//	72  PoolState       uint64
//	80  TotalLP         uint64
//	88  MinPrice        float64
//	96  MaxPrice        float64
//	104 OrdersCount     uint64
//	112 Depth           float64
//	120 BaseNeedTake    uint64
//	128 QuoteNeedTake   uint64
//	136 FeeNumerator    uint64
//	144 FeeDenominator  uint64
//	152 OpenTime        uint64
//	160 RecentSlot      uint64
const RaydiumLayoutSize = 168

// MeteoraLayoutSize is the minimum byte length of a dynamic-liquidity
// pool account. Offsets (bytes):
//
//	0   Authority       [32]byte
//	32  VaultA          [32]byte
//	64  VaultB          [32]byte
//	96  Liquidity       uint64
//	104 SqrtPriceX64    uint64
//	112 TickCurrent     int32
//	116 TickLower       int32
//	120 TickUpper       int32
//	124 _pad            uint32
//	128 FeeRateBps      uint16
//	130 ProtocolFeeRateBps uint16
//	132 _pad2           uint32
//	136 FeeGrowthA      uint64
//	144 FeeGrowthB      uint64
//	152 DynamicMode     uint32
//	156 _pad3           uint32
//	160 LiquidityCap    uint64
//	168 LiquidityMult   float64
//	176 Volume24h       float64
//	184 Fees24h         float64
//	192 LastSlot        uint64
const MeteoraLayoutSize = 200
