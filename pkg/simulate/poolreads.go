package simulate

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/constants"
	"github.com/sandwichlab/evaluator/pkg/harness"
	"github.com/sandwichlab/evaluator/pkg/types"
)

// readOnlyCall executes a spoofed call as constants.SugarDaddy, a
// synthetic well-funded address, against to with the given calldata. The
// call is read-only: TransactRef never commits writes. gasPrice must be the
// target block's base fee, or go-ethereum's London fee-cap pre-check
// rejects the call before it ever executes.
func readOnlyCall(h *harness.Harness, to types.Address, data []byte, gasPrice types.U256) ([]byte, error) {
	res, err := h.TransactRef(types.TxEnv{
		Caller:   constants.SugarDaddy,
		To:       to,
		Value:    types.ZeroU256(),
		Data:     data,
		GasLimit: 1_000_000,
		GasPrice: gasPrice,
	})
	if err != nil {
		return nil, err
	}
	if res.Status != types.ExecutionSuccess {
		return nil, fmt.Errorf("read-only call to %s did not succeed (status %d)", to, res.Status)
	}
	return res.Output, nil
}

// getReserves calls the pool's getReserves() and returns (reserve0,
// reserve1) ordered by the pool's own token0/token1 ordering (smaller
// address first), per UniswapV2Pair.getReserves()'s
// (uint112 reserve0, uint112 reserve1, uint32 blockTimestampLast) layout.
func getReserves(h *harness.Harness, pool types.Address, gasPrice types.U256) (reserve0, reserve1 types.U256, err error) {
	output, err := readOnlyCall(h, pool, constants.GetReservesSelector, gasPrice)
	if err != nil {
		return nil, nil, fmt.Errorf("getReserves: %w", err)
	}
	if len(output) < 64 {
		return nil, nil, fmt.Errorf("getReserves: short output %d bytes", len(output))
	}
	return new(uint256.Int).SetBytes(output[0:32]), new(uint256.Int).SetBytes(output[32:64]), nil
}

// reservesForTokens resolves (reserveIn, reserveOut) for a swap from
// tokenIn to tokenOut against pool, honoring the invariant that the
// lexicographically smaller token address is reserves_0.
func reservesForTokens(pool types.Pool, reserve0, reserve1 types.U256, tokenIn types.Address) (reserveIn, reserveOut types.U256) {
	token0, _ := pool.ReservesOrdered()
	if tokenIn == token0 {
		return reserve0, reserve1
	}
	return reserve1, reserve0
}

// balanceOf issues a spoofed balanceOf(owner) call against token.
func balanceOf(h *harness.Harness, token, owner types.Address, gasPrice types.U256) (types.U256, error) {
	data := make([]byte, 0, 4+32)
	data = append(data, constants.BalanceOfSelector...)
	var padded [32]byte
	copy(padded[12:32], owner[:])
	data = append(data, padded[:]...)

	output, err := readOnlyCall(h, token, data, gasPrice)
	if err != nil {
		return nil, fmt.Errorf("balanceOf(%s) on %s: %w", owner, token, err)
	}
	if len(output) < 32 {
		return nil, fmt.Errorf("balanceOf(%s) on %s: short output", owner, token)
	}
	return new(uint256.Int).SetBytes(output[0:32]), nil
}
