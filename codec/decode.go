// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/arbscan/errs"
	"github.com/luxfi/arbscan/poolstate"
	"github.com/luxfi/arbscan/registry"
)

// MinParallelSize is the encoded-byte threshold above which base64
// decoding fans out across chunks (§4.1 performance contract). Below it,
// base64 decoding runs single-threaded on the calling goroutine.
const MinParallelSize = 2048

// chunkSize is the number of base64 characters handed to each parallel
// decode task. It is kept a multiple of 4 so chunk boundaries always
// fall on whole base64 quanta.
const chunkSize = 512

var bufPool = sync.Pool{
	New: func() any { return new([]byte) },
}

var decoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil)
		if err != nil {
			panic(err)
		}
		return d
	},
}

// decodeBase64Zstd turns the wire string into a decompressed byte slice.
// The zstd decoder is taken from decoderPool and returned after use. The
// slice from bufPool is truncated and passed to DecodeAll as its
// destination, but the decompressed output is handed to the caller and
// is not stored back into the pool: the pooled slice stays empty, so
// every call allocates a fresh output buffer.
func decodeBase64Zstd(encoded string) ([]byte, error) {
	var raw []byte
	var err error

	if len(encoded) >= MinParallelSize {
		raw, err = decodeBase64Parallel(encoded)
	} else {
		raw, err = base64.StdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, errs.ErrCodec
	}

	dec, _ := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)

	bufPtr, _ := bufPool.Get().(*[]byte)
	*bufPtr = (*bufPtr)[:0]
	defer bufPool.Put(bufPtr)

	out, err := dec.DecodeAll(raw, *bufPtr)
	if err != nil {
		return nil, errs.ErrCodec
	}
	return out, nil
}

// decodeBase64Parallel splits the encoded string into chunkSize-aligned
// pieces and decodes them concurrently; zstd still runs once over the
// concatenated result since zstd frames are not chunk-local.
func decodeBase64Parallel(encoded string) ([]byte, error) {
	n := len(encoded)
	// round chunkSize down to a multiple of 4 (already true by
	// construction) so every piece is independently valid base64.
	numChunks := (n + chunkSize - 1) / chunkSize
	results := make([][]byte, numChunks)

	var g errgroup.Group
	for i := 0; i < numChunks; i++ {
		i := i
		start := i * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		chunk := encoded[start:end]
		g.Go(func() error {
			decoded, err := base64.StdEncoding.DecodeString(chunk)
			if err != nil {
				return err
			}
			results[i] = decoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]byte, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// Decode turns an encoded payload into the DEX-specific pool state for
// addr. The caller is responsible for checking the data-encoding tag;
// only base64+zstd is supported here (§6).
func Decode(encoded string, dex registry.DexKind, addr registry.Address) (poolstate.State, error) {
	raw, err := decodeBase64Zstd(encoded)
	if err != nil {
		return nil, err
	}
	switch dex {
	case registry.Orca:
		return parseOrca(raw, addr)
	case registry.Raydium:
		return parseRaydium(raw, addr)
	case registry.Meteora:
		return parseMeteora(raw, addr)
	default:
		return nil, errs.ErrLayout
	}
}

func readAddr(b []byte, off int) registry.Address {
	var a registry.Address
	copy(a[:], b[off:off+32])
	return a
}

func parseOrca(b []byte, addr registry.Address) (poolstate.State, error) {
	if len(b) < OrcaLayoutSize {
		return nil, errs.ErrInsufficientBytes
	}
	s := poolstate.NewOrcaState(addr)
	s.TokenMintA = readAddr(b, 0)
	s.TokenMintB = readAddr(b, 32)
	s.TokenVaultA = readAddr(b, 64)
	s.TokenVaultB = readAddr(b, 96)
	s.Liquidity = binary.LittleEndian.Uint64(b[128:136])
	s.SqrtPriceX64 = binary.LittleEndian.Uint64(b[136:144])
	s.TickCurrent = int32(binary.LittleEndian.Uint32(b[144:148]))
	s.TickSpacing = binary.LittleEndian.Uint16(b[148:150])
	s.FeeRateBps = binary.LittleEndian.Uint16(b[150:152])
	s.ProtocolFeeRateBps = binary.LittleEndian.Uint16(b[152:154])
	s.PriceThreshold = binary.LittleEndian.Uint64(b[156:164])
	s.FeeGrowthA = binary.LittleEndian.Uint64(b[164:172])
	s.FeeGrowthB = binary.LittleEndian.Uint64(b[172:180])
	s.ProtocolFeeOwedA = binary.LittleEndian.Uint64(b[180:188])
	s.ProtocolFeeOwedB = binary.LittleEndian.Uint64(b[188:196])
	s.LastSlot = binary.LittleEndian.Uint64(b[196:204])
	return s, nil
}

func parseRaydium(b []byte, addr registry.Address) (poolstate.State, error) {
	if len(b) < RaydiumLayoutSize {
		return nil, errs.ErrInsufficientBytes
	}
	s := poolstate.NewRaydiumState(addr)
	s.BaseMint = readAddr(b, 0)
	s.QuoteMint = readAddr(b, 32)
	s.Status = binary.LittleEndian.Uint64(b[64:72])
	s.PoolState = binary.LittleEndian.Uint64(b[72:80])
	s.TotalLP = binary.LittleEndian.Uint64(b[80:88])
	s.MinPrice = float64FromBits(b[88:96])
	s.MaxPrice = float64FromBits(b[96:104])
	s.OrdersCount = binary.LittleEndian.Uint64(b[104:112])
	s.Depth = float64FromBits(b[112:120])
	s.BaseNeedTake = binary.LittleEndian.Uint64(b[120:128])
	s.QuoteNeedTake = binary.LittleEndian.Uint64(b[128:136])
	s.FeeNumerator = binary.LittleEndian.Uint64(b[136:144])
	s.FeeDenominator = binary.LittleEndian.Uint64(b[144:152])
	s.OpenTime = binary.LittleEndian.Uint64(b[152:160])
	s.RecentSlot = binary.LittleEndian.Uint64(b[160:168])
	return s, nil
}

func parseMeteora(b []byte, addr registry.Address) (poolstate.State, error) {
	if len(b) < MeteoraLayoutSize {
		return nil, errs.ErrInsufficientBytes
	}
	s := poolstate.NewMeteoraState(addr)
	s.Authority = readAddr(b, 0)
	s.VaultA = readAddr(b, 32)
	s.VaultB = readAddr(b, 64)
	s.Liquidity = binary.LittleEndian.Uint64(b[96:104])
	s.SqrtPriceX64 = binary.LittleEndian.Uint64(b[104:112])
	s.TickCurrent = int32(binary.LittleEndian.Uint32(b[112:116]))
	s.TickLower = int32(binary.LittleEndian.Uint32(b[116:120]))
	s.TickUpper = int32(binary.LittleEndian.Uint32(b[120:124]))
	s.FeeRateBps = binary.LittleEndian.Uint16(b[128:130])
	s.ProtocolFeeRateBps = binary.LittleEndian.Uint16(b[130:132])
	s.FeeGrowthA = binary.LittleEndian.Uint64(b[136:144])
	s.FeeGrowthB = binary.LittleEndian.Uint64(b[144:152])
	s.DynamicMode = binary.LittleEndian.Uint32(b[152:156])
	s.LiquidityCap = binary.LittleEndian.Uint64(b[160:168])
	s.LiquidityMult = float64FromBits(b[168:176])
	s.Volume24h = float64FromBits(b[176:184])
	s.Fees24h = float64FromBits(b[184:192])
	s.LastSlot = binary.LittleEndian.Uint64(b[192:200])
	return s, nil
}

func float64FromBits(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
