package ammmath

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestV2AmountOutZeroInputIsZero(t *testing.T) {
	out := V2AmountOut(uint256.NewInt(0), uint256.NewInt(1000), uint256.NewInt(2000), DefaultFeeBps)
	if out.Sign() != 0 {
		t.Fatalf("expected 0, got %s", out.String())
	}
}

func TestV2AmountOutNeverExceedsReserveOut(t *testing.T) {
	reserveIn := uint256.NewInt(1_000_000)
	reserveOut := uint256.NewInt(2_000_000)
	for _, in := range []uint64{1, 100, 1_000_000, 1_000_000_000} {
		out := V2AmountOut(uint256.NewInt(in), reserveIn, reserveOut, DefaultFeeBps)
		if out.Cmp(reserveOut) >= 0 {
			t.Fatalf("amount_out(%d) = %s, want < reserveOut %s", in, out.String(), reserveOut.String())
		}
	}
}

func TestV2AmountOutMonotoneNonDecreasing(t *testing.T) {
	reserveIn := uint256.NewInt(1_000_000)
	reserveOut := uint256.NewInt(2_000_000)
	prev := uint256.NewInt(0)
	for _, in := range []uint64{0, 10, 100, 1_000, 10_000, 100_000} {
		out := V2AmountOut(uint256.NewInt(in), reserveIn, reserveOut, DefaultFeeBps)
		if out.Cmp(prev) < 0 {
			t.Fatalf("amount_out not monotone at in=%d: %s < %s", in, out.String(), prev.String())
		}
		prev = out
	}
}

func TestV2AmountOutZeroReserveInIsZeroNotPanic(t *testing.T) {
	out := V2AmountOut(uint256.NewInt(100), uint256.NewInt(0), uint256.NewInt(100), DefaultFeeBps)
	if out.Sign() != 0 {
		t.Fatalf("expected 0 on zero reserveIn, got %s", out.String())
	}
}
