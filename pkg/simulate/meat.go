package simulate

import (
	"github.com/sandwichlab/evaluator/pkg/types"
)

// meatGasLimit is the gas limit granted during simulation to a meat whose
// own Gas field is zero; a meat with a nonzero Gas keeps its own limit.
const meatGasLimit = 1_000_000

// meatToTxEnv copies a meat's caller, value, and calldata unchanged into a
// transaction environment, discriminating gas pricing by transaction type:
// type-2 uses MaxFeePerGas as the gas price, every other type uses
// GasPrice. MaxPriorityFeePerGas is not carried into the TxEnv.
// Nonce is intentionally omitted — meats are simulated with nonce checks
// disabled.
func meatToTxEnv(m types.Meat) types.TxEnv {
	gasPrice := m.GasPrice
	if m.TransactionType == 2 {
		gasPrice = m.MaxFeePerGas
	}
	if gasPrice == nil {
		gasPrice = types.ZeroU256()
	}

	gasLimit := m.Gas
	if gasLimit == 0 {
		gasLimit = meatGasLimit
	}

	return types.TxEnv{
		Caller:   m.From,
		To:       m.To,
		Value:    valueOrZero(m.Value),
		Data:     m.Input,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
	}
}

func valueOrZero(v types.U256) types.U256 {
	if v == nil {
		return types.ZeroU256()
	}
	return v
}
