package simulate

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/types"
)

func TestMeatToTxEnvLegacyUsesGasPrice(t *testing.T) {
	meat := types.Meat{
		From:            types.Address{0x01},
		To:              types.Address{0x02},
		Input:           []byte{0xde, 0xad},
		Value:           uint256.NewInt(7),
		Gas:             21_000,
		GasPrice:        uint256.NewInt(100),
		TransactionType: 0,
	}
	env := meatToTxEnv(meat)
	if env.GasPrice.Cmp(uint256.NewInt(100)) != 0 {
		t.Fatalf("expected legacy gas price 100, got %s", env.GasPrice)
	}
	if env.GasLimit != 21_000 {
		t.Fatalf("expected preserved gas limit, got %d", env.GasLimit)
	}
	if env.Caller != meat.From || env.To != meat.To {
		t.Fatalf("caller/to not preserved unchanged")
	}
	if string(env.Data) != string(meat.Input) {
		t.Fatalf("calldata not preserved unchanged")
	}
}

func TestMeatToTxEnvDynamicFeeUsesMaxFeePerGas(t *testing.T) {
	meat := types.Meat{
		From:                 types.Address{0x01},
		To:                   types.Address{0x02},
		MaxFeePerGas:         uint256.NewInt(500),
		MaxPriorityFeePerGas: uint256.NewInt(2),
		GasPrice:             uint256.NewInt(999),
		TransactionType:      2,
	}
	env := meatToTxEnv(meat)
	if env.GasPrice.Cmp(uint256.NewInt(500)) != 0 {
		t.Fatalf("expected dynamic-fee gas price to use MaxFeePerGas, got %s", env.GasPrice)
	}
}

func TestMeatToTxEnvDefaultsMissingGasLimit(t *testing.T) {
	env := meatToTxEnv(types.Meat{})
	if env.GasLimit != meatGasLimit {
		t.Fatalf("expected default gas limit %d, got %d", meatGasLimit, env.GasLimit)
	}
	if env.Value.Sign() != 0 {
		t.Fatalf("expected zero value default, got %s", env.Value)
	}
	if env.GasPrice.Sign() != 0 {
		t.Fatalf("expected zero gas price default, got %s", env.GasPrice)
	}
}

func TestValueOrZeroHandlesNil(t *testing.T) {
	if valueOrZero(nil).Sign() != 0 {
		t.Fatalf("expected zero for nil input")
	}
	v := uint256.NewInt(42)
	if valueOrZero(v) != v {
		t.Fatalf("expected passthrough for non-nil input")
	}
}

func TestReservesForTokensOrdersByToken0(t *testing.T) {
	tokenA := types.Address{0x01}
	tokenB := types.Address{0x02}
	pool := types.Pool{Kind: types.PoolKindUniswapV2, TokenA: tokenA, TokenB: tokenB}
	token0, token1 := pool.ReservesOrdered()

	reserve0 := uint256.NewInt(1_000)
	reserve1 := uint256.NewInt(2_000)

	inForToken0, outForToken0 := reservesForTokens(pool, reserve0, reserve1, token0)
	if inForToken0 != reserve0 || outForToken0 != reserve1 {
		t.Fatalf("expected (reserve0, reserve1) when swapping token0 in")
	}

	inForToken1, outForToken1 := reservesForTokens(pool, reserve0, reserve1, token1)
	if inForToken1 != reserve1 || outForToken1 != reserve0 {
		t.Fatalf("expected (reserve1, reserve0) when swapping token1 in")
	}
}
