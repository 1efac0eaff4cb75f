package calldata

import (
	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/types"
)

// BuildSwapV2Data packs the lil router's single-call V2 swap: selector,
// pool address, amount, and a frontrun/backrun direction flag. The helper
// router collapses "swap in, read reserves, compute output" into one call
// so the search path can avoid a second round trip per stage.
func BuildSwapV2Data(amountIn types.U256, pool types.Address, isFrontrun bool) []byte {
	buf := make([]byte, 0, 4+20+32+1)
	buf = append(buf, selectorSwapV2[:]...)
	buf = append(buf, pool[:]...)
	buf = append(buf, amountIn.Bytes32()[:]...)
	buf = append(buf, boolByte(isFrontrun))
	return buf
}

// BuildSwapV3Data is BuildSwapV2Data's V3 analogue; the router resolves pool
// fee tier and tick data on-chain, so the caller only names the pool and
// direction.
func BuildSwapV3Data(amountIn types.U256, pool types.Address, isFrontrun bool) []byte {
	buf := make([]byte, 0, 4+20+32+1)
	buf = append(buf, selectorSwapV3[:]...)
	buf = append(buf, pool[:]...)
	buf = append(buf, amountIn.Bytes32()[:]...)
	buf = append(buf, boolByte(isFrontrun))
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// DecodeSwapOutput decodes the lil router's return value: a packed pair
// (frontrun_out, backrun_in), each a full 32-byte U256, matching step 4 of
// the search-path protocol. backrun_in is the exact intermediary balance
// the helper holds after the frontrun, not a re-derivation.
func DecodeSwapOutput(output []byte) (frontrunOut, backrunIn types.U256, ok bool) {
	if len(output) < 64 {
		return nil, nil, false
	}
	return new(uint256.Int).SetBytes(output[0:32]), new(uint256.Int).SetBytes(output[32:64]), true
}
