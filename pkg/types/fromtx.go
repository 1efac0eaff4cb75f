package types

import (
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// MeatFromTransaction adapts a decoded go-ethereum transaction (as
// delivered by pkg/mempool) into a Meat, preserving caller, value, and
// calldata unchanged per the data model's invariant. from must be recovered
// by the caller (e.g. via gethtypes.Sender) since a bare *Transaction does
// not carry its sender.
func MeatFromTransaction(tx *gethtypes.Transaction, from Address) Meat {
	meat := Meat{
		From:            from,
		Input:           tx.Data(),
		Gas:             tx.Gas(),
		TransactionType: tx.Type(),
	}
	if tx.To() != nil {
		meat.To = *tx.To()
	}
	if v, overflow := uint256.FromBig(tx.Value()); !overflow {
		meat.Value = v
	} else {
		meat.Value = ZeroU256()
	}
	if tx.ChainId() != nil {
		if v, overflow := uint256.FromBig(tx.ChainId()); !overflow {
			meat.ChainID = v
		}
	}
	switch tx.Type() {
	case gethtypes.DynamicFeeTxType:
		if v, overflow := uint256.FromBig(tx.GasFeeCap()); !overflow {
			meat.MaxFeePerGas = v
		}
		if v, overflow := uint256.FromBig(tx.GasTipCap()); !overflow {
			meat.MaxPriorityFeePerGas = v
		}
	default:
		if v, overflow := uint256.FromBig(tx.GasPrice()); !overflow {
			meat.GasPrice = v
		}
	}
	return meat
}
