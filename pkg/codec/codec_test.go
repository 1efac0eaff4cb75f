package codec

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

func mustU256(s string) *uint256.Int {
	v, ok := new(uint256.Int).SetFromBig(new(big.Int).SetBytes([]byte(s)))
	if ok {
		panic("overflow")
	}
	return v
}

func u256FromUint64(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func TestWETHRoundTripNeverExceedsInput(t *testing.T) {
	cases := []uint64{0, 1, WETHGranularity - 1, WETHGranularity, WETHGranularity + 1, 10_000_000_000_000_000_000}
	for _, c := range cases {
		x := u256FromUint64(c)
		got := RoundTripWETH(x)
		if got.Cmp(x) > 0 {
			t.Fatalf("RoundTripWETH(%d) = %s, want <= %d", c, got.String(), c)
		}
		gap := new(uint256.Int).Sub(x, got)
		if gap.Cmp(uint256.NewInt(WETHGranularity)) >= 0 {
			t.Fatalf("RoundTripWETH(%d) gap %s exceeds one granularity unit", c, gap.String())
		}
	}
}

func TestWETHEncodeSaturatesOnOverflow(t *testing.T) {
	huge := new(uint256.Int).Mul(uint256.NewInt(WETHGranularity), new(uint256.Int).Lsh(uint256.NewInt(1), 40))
	enc := EncodeWETH(huge)
	decoded := DecodeWETH(enc)
	// must not silently wrap to a small value
	if decoded.Sign() == 0 {
		t.Fatalf("expected saturated nonzero decode, got 0")
	}
}

func TestFiveByteRoundTripNeverExceedsInput(t *testing.T) {
	cases := []uint64{0, 1, 1 << 20, 1 << 40, ^uint64(0)}
	for _, c := range cases {
		x := u256FromUint64(c)
		meta := EncodeFiveByte(x, 0)
		got := meta.Decode()
		if got.Cmp(x) > 0 {
			t.Fatalf("Decode(Encode(%d)) = %s, want <= %d", c, got.String(), c)
		}
		ulp := new(uint256.Int).Lsh(uint256.NewInt(1), uint(meta.Exponent)*8)
		gap := new(uint256.Int).Sub(x, got)
		if gap.Cmp(ulp) >= 0 {
			t.Fatalf("Decode(Encode(%d)) gap %s exceeds one ULP %s", c, gap.String(), ulp.String())
		}
	}
}

func TestFiveByteRespectsMinExponent(t *testing.T) {
	meta := EncodeFiveByte(uint256.NewInt(5), 1)
	if meta.Exponent < 1 {
		t.Fatalf("expected exponent >= minExp=1, got %d", meta.Exponent)
	}
}

func TestDecrementFourBytesSaturatesAtZero(t *testing.T) {
	meta := FiveByteMetaData{Mantissa: 0, Exponent: 0}
	meta.DecrementFourBytes()
	if meta.Mantissa != 0 {
		t.Fatalf("expected mantissa to saturate at 0, got %d", meta.Mantissa)
	}

	meta2 := FiveByteMetaData{Mantissa: 5, Exponent: 2}
	meta2.DecrementFourBytes()
	if meta2.Mantissa != 4 {
		t.Fatalf("expected mantissa 4, got %d", meta2.Mantissa)
	}
}

func TestFiveByteBytesRoundTrip(t *testing.T) {
	meta := EncodeFiveByte(uint256.NewInt(123_456_789_012), 1)
	enc := meta.Bytes()
	decoded := DecodeFiveByteBytes(enc)
	if decoded.Cmp(meta.Decode()) != 0 {
		t.Fatalf("DecodeFiveByteBytes mismatch: got %s want %s", decoded.String(), meta.Decode().String())
	}
}
