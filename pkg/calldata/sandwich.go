package calldata

import (
	"github.com/sandwichlab/evaluator/pkg/codec"
	"github.com/sandwichlab/evaluator/pkg/types"
)

// V2CreateFrontrunPayload builds the production contract's V2 frontrun
// calldata. amountIn is expected to already be the WETH-encoder round-trip
// value (§4.B); amountOutMin is the locally-computed constant-product
// estimate, packed with the five-byte encoder so an off-by-one in reserve
// math never overstates what the contract must receive. Returns the
// calldata and the ETH value to attach to the call (the frontrun input
// itself, since the production contract receives WETH-equivalent value
// directly rather than via a prior ERC-20 transfer).
func V2CreateFrontrunPayload(pool, intermediary types.Address, amountIn, amountOutMin types.U256) ([]byte, types.U256) {
	outMeta := codec.EncodeFiveByte(amountOutMin, 0)
	buf := make([]byte, 0, 4+20+20+5)
	buf = append(buf, selectorV2Frontrun[:]...)
	buf = append(buf, pool[:]...)
	buf = append(buf, intermediary[:]...)
	outBytes := outMeta.Bytes()
	buf = append(buf, outBytes[:]...)
	return buf, amountIn
}

// V2CreateBackrunPayload builds the production contract's V2 backrun
// calldata. amountIn here is already the five-byte-encoded,
// dust-decremented intermediary balance computed in §4.E step 7; it is
// re-encoded here purely so the builder's signature mirrors the frontrun
// builder's (pool, intermediary, in, out) shape.
func V2CreateBackrunPayload(pool, intermediary types.Address, amountIn, amountOutMin types.U256) ([]byte, types.U256) {
	inMeta := codec.EncodeFiveByte(amountIn, 1)
	outMeta := codec.EncodeFiveByte(amountOutMin, 0)

	buf := make([]byte, 0, 4+20+20+5+5)
	buf = append(buf, selectorV2Backrun[:]...)
	buf = append(buf, pool[:]...)
	buf = append(buf, intermediary[:]...)
	inBytes := inMeta.Bytes()
	buf = append(buf, inBytes[:]...)
	outBytes := outMeta.Bytes()
	buf = append(buf, outBytes[:]...)
	return buf, types.ZeroU256()
}

// V3CreateFrontrunPayload is V2CreateFrontrunPayload's V3 analogue. V3
// pools carry no locally-computable output (concentrated liquidity math is
// never run client-side), so the payload carries no out field at all.
func V3CreateFrontrunPayload(pool, intermediary types.Address, amountIn types.U256) ([]byte, types.U256) {
	buf := make([]byte, 0, 4+20+20)
	buf = append(buf, selectorV3Frontrun[:]...)
	buf = append(buf, pool[:]...)
	buf = append(buf, intermediary[:]...)
	return buf, amountIn
}

// V3CreateBackrunPayload is V2CreateBackrunPayload's V3 analogue.
func V3CreateBackrunPayload(pool, intermediary types.Address, amountIn types.U256) ([]byte, types.U256) {
	inMeta := codec.EncodeFiveByte(amountIn, 1)

	buf := make([]byte, 0, 4+20+20+5)
	buf = append(buf, selectorV3Backrun[:]...)
	buf = append(buf, pool[:]...)
	buf = append(buf, intermediary[:]...)
	inBytes := inMeta.Bytes()
	buf = append(buf, inBytes[:]...)
	return buf, types.ZeroU256()
}
