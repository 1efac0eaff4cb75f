// Package codec implements the two amount encodings the production
// sandwich contract consumes on calldata: a WETH-specific fixed-granularity
// encoder and a general mantissa/exponent encoder. Both are pure, total,
// and lossy-by-truncation: decode(encode(x)) <= x.
package codec

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/types"
)

// WETHGranularity is the wei-per-unit the WETH encoder quantizes to. Chosen
// to leave headroom for realistic bot inventories (a few hundred ETH) while
// fitting the quantized amount into 4 bytes: 2^32 * 1e11 wei ~= 429.5 ETH.
const WETHGranularity = 100_000_000_000 // 1e11 wei

// EncodeWETH quantizes amount down to the nearest multiple of
// WETHGranularity and returns it packed into 4 big-endian bytes. Values
// whose quantized unit count exceeds a uint32 saturate at math.MaxUint32
// units, matching the contract's own field width.
func EncodeWETH(amount types.U256) [4]byte {
	granularity := uint256.NewInt(WETHGranularity)
	units := new(uint256.Int).Div(amount, granularity)
	var out [4]byte
	if units.BitLen() > 32 {
		binary.BigEndian.PutUint32(out[:], ^uint32(0))
		return out
	}
	binary.BigEndian.PutUint32(out[:], uint32(units.Uint64()))
	return out
}

// DecodeWETH reverses EncodeWETH. decode(encode(x)) <= x for all x; the gap
// is strictly less than WETHGranularity unless EncodeWETH saturated.
func DecodeWETH(enc [4]byte) types.U256 {
	units := binary.BigEndian.Uint32(enc[:])
	return new(uint256.Int).Mul(uint256.NewInt(uint64(units)), uint256.NewInt(WETHGranularity))
}

// RoundTripWETH is the idiom used everywhere a frontrun input must match
// on-chain calldata exactly: the actual amount the EVM sees is
// decode(encode(x)), not x.
func RoundTripWETH(amount types.U256) types.U256 {
	return DecodeWETH(EncodeWETH(amount))
}
