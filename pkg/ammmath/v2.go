// Package ammmath implements the constant-product formula used to
// approximate a Uniswap V2 pool's swap output locally, without a call into
// the EVM. V3 pools have no local equivalent here: concentrated-liquidity
// output always comes from concrete simulation.
package ammmath

import (
	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/types"
)

// DefaultFeeBps is the canonical 30 basis point (0.3%) Uniswap V2 fee used
// as the search-time approximation. The authoritative profit figure always
// comes from concrete EVM simulation; this hook exists so a future caller
// can pass a pool-declared fee instead of assuming 30bp universally.
const DefaultFeeBps = 30

const feeBpsDenominator = 10_000

// V2AmountOut computes the constant-product swap output for reserves
// (reserveIn, reserveOut) and input amountIn, with fee expressed in basis
// points (30 = 0.30%). Mirrors
// num = (10000-feeBps)*amountIn*reserveOut; den = 10000*reserveIn + (10000-feeBps)*amountIn
// out = num / den, computed with the same numerator/denominator shape as
// the constant-product math the production contract performs on-chain,
// generalized from the hardcoded 997/1000 split to a configurable fee.
//
// Returns zero on a division error (e.g. reserveIn == 0), never panics.
func V2AmountOut(amountIn, reserveIn, reserveOut types.U256, feeBps uint32) types.U256 {
	if amountIn.Sign() == 0 || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return types.ZeroU256()
	}

	feeMultiplier := uint256.NewInt(uint64(feeBpsDenominator - feeBps))
	amountInWithFee := new(uint256.Int).Mul(amountIn, feeMultiplier)

	numerator := new(uint256.Int).Mul(amountInWithFee, reserveOut)

	denominator := new(uint256.Int).Mul(reserveIn, uint256.NewInt(feeBpsDenominator))
	denominator.Add(denominator, amountInWithFee)

	if denominator.Sign() == 0 {
		return types.ZeroU256()
	}

	out := new(uint256.Int).Div(numerator, denominator)
	return out
}
