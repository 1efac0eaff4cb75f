package calldata

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func TestBuildSwapV2DataIsStableAndDirectional(t *testing.T) {
	pool := common.HexToAddress("0x1234000000000000000000000000000000abcd")
	amount := uint256.NewInt(1_000_000)

	front := BuildSwapV2Data(amount, pool, true)
	back := BuildSwapV2Data(amount, pool, false)

	if bytes.Equal(front, back) {
		t.Fatalf("frontrun and backrun calldata must differ by direction flag")
	}
	if len(front) != 4+20+32+1 {
		t.Fatalf("unexpected calldata length %d", len(front))
	}
	if !bytes.Equal(front[4:24], pool[:]) {
		t.Fatalf("pool address not packed at expected offset")
	}
}

func TestDecodeSwapOutputReadsBothWords(t *testing.T) {
	out := make([]byte, 64)
	out[31] = 0x2a
	out[63] = 0x7b
	frontrunOut, backrunIn, ok := DecodeSwapOutput(out)
	if !ok {
		t.Fatalf("expected ok=true for 64-byte output")
	}
	if frontrunOut.Uint64() != 0x2a {
		t.Fatalf("frontrunOut = %d, want 42", frontrunOut.Uint64())
	}
	if backrunIn.Uint64() != 0x7b {
		t.Fatalf("backrunIn = %d, want 123", backrunIn.Uint64())
	}
}

func TestDecodeSwapOutputRejectsShortBuffer(t *testing.T) {
	_, _, ok := DecodeSwapOutput(make([]byte, 10))
	if ok {
		t.Fatalf("expected ok=false for undersized output")
	}
}

func TestV2PayloadsCarryPoolAndIntermediary(t *testing.T) {
	pool := common.HexToAddress("0xaaaa000000000000000000000000000000aaaa")
	intermediary := common.HexToAddress("0xbbbb000000000000000000000000000000bbbb")
	amountIn := uint256.NewInt(5_000_000)
	amountOut := uint256.NewInt(4_000_000)

	frontData, frontValue := V2CreateFrontrunPayload(pool, intermediary, amountIn, amountOut)
	if frontValue.Cmp(amountIn) != 0 {
		t.Fatalf("frontrun value = %s, want %s", frontValue.String(), amountIn.String())
	}
	if !bytes.Contains(frontData, pool[:]) {
		t.Fatalf("frontrun calldata missing pool address")
	}

	backData, backValue := V2CreateBackrunPayload(pool, intermediary, amountIn, amountOut)
	if backValue.Sign() != 0 {
		t.Fatalf("backrun value = %s, want 0", backValue.String())
	}
	if !bytes.Contains(backData, intermediary[:]) {
		t.Fatalf("backrun calldata missing intermediary address")
	}
}

func TestV3BackrunValueIsZero(t *testing.T) {
	pool := common.HexToAddress("0xcccc000000000000000000000000000000cccc")
	intermediary := common.HexToAddress("0xdddd000000000000000000000000000000dddd")
	_, value := V3CreateBackrunPayload(pool, intermediary, uint256.NewInt(1000))
	if value.Sign() != 0 {
		t.Fatalf("V3 backrun value = %s, want 0", value.String())
	}
}
