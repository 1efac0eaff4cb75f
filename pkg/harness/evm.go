package harness

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethcore "github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/tracing"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"

	"github.com/sandwichlab/evaluator/pkg/types"
)

// Harness drives a forked EVM for one simulation's lifetime. It wires
// go-ethereum's own state-transition machinery (gethvm.NewEVM,
// gethcore.ApplyMessage, Snapshot/RevertToSnapshot) against a ForkStateDB
// overlay instead of a committed trie, and exposes the
// transact_ref/transact_commit/inspect_ref/inspect_commit contract the
// simulators need.
type Harness struct {
	StateDB *ForkStateDB
	Config  *params.ChainConfig
	block   gethvm.BlockContext
}

// NewHarness creates a forked EVM execution environment over stateDB, the
// simulation's own overlay. chainConfig should reflect the target chain's active
// fork rules at the block the simulation targets.
func NewHarness(stateDB *ForkStateDB, chainConfig *params.ChainConfig) *Harness {
	return &Harness{StateDB: stateDB, Config: chainConfig}
}

// SetupBlock configures the EVM's environment block number, timestamp, and
// base fee from info, so simulations behave as if included in that block.
func (h *Harness) SetupBlock(info types.BlockInfo) {
	baseFee := new(big.Int)
	if info.BaseFeePerGas != nil {
		baseFee = info.BaseFeePerGas.ToBig()
	}
	h.block = gethvm.BlockContext{
		CanTransfer: gethcore.CanTransfer,
		Transfer:    gethcore.Transfer,
		GetHash:     h.getHash,
		Coinbase:    common.Address{},
		GasLimit:    30_000_000,
		BlockNumber: new(big.Int).SetUint64(info.Number),
		Time:        info.Timestamp,
		Difficulty:  new(big.Int),
		BaseFee:     baseFee,
	}
}

func (h *Harness) getHash(n uint64) common.Hash {
	hash, err := h.StateDB.backend.BlockHash(h.StateDB.ctx, n)
	if err != nil {
		return common.Hash{}
	}
	return hash
}

func (h *Harness) newMessage(tx types.TxEnv) *gethcore.Message {
	to := tx.To
	value := new(big.Int)
	if tx.Value != nil {
		value = tx.Value.ToBig()
	}
	gasPrice := new(big.Int)
	if tx.GasPrice != nil {
		gasPrice = tx.GasPrice.ToBig()
	}
	return &gethcore.Message{
		From:              tx.Caller,
		To:                &to,
		Nonce:             h.StateDB.GetNonce(tx.Caller),
		Value:             value,
		GasLimit:          tx.GasLimit,
		GasPrice:          gasPrice,
		GasFeeCap:         gasPrice,
		GasTipCap:         gasPrice,
		Data:              tx.Data,
		AccessList:        tx.AccessList,
		SkipAccountChecks: true,
	}
}

func toExecutionResult(res *gethcore.ExecutionResult) types.ExecutionResult {
	out := types.ExecutionResult{GasUsed: res.UsedGas, Output: res.ReturnData}
	switch {
	case res.Err == nil:
		out.Status = types.ExecutionSuccess
	case len(res.Revert()) > 0:
		out.Status = types.ExecutionReverted
	default:
		out.Status = types.ExecutionHalted
		out.HaltReason = res.Err
	}
	return out
}

// run performs the shared ApplyMessage plumbing for both ref and commit
// variants; commit controls whether a successful result's writes are kept
// (ref always rolls back, since it is read-only by contract). A reverted or
// halted result is rolled back in both variants.
func (h *Harness) run(tx types.TxEnv, tracer *tracing.Hooks, commit bool) (types.ExecutionResult, error) {
	msg := h.newMessage(tx)

	evmConfig := gethvm.Config{}
	if tracer != nil {
		evmConfig.Tracer = tracer
	}
	evm := gethvm.NewEVM(h.block, h.StateDB, h.Config, evmConfig)

	snapshot := h.StateDB.Snapshot()
	gasPool := new(gethcore.GasPool).AddGas(tx.GasLimit)

	result, err := gethcore.ApplyMessage(evm, msg, gasPool)
	if err != nil {
		h.StateDB.RevertToSnapshot(snapshot)
		return types.ExecutionResult{}, fmt.Errorf("apply message: %w", err)
	}

	execResult := toExecutionResult(result)
	execResult.Logs = h.StateDB.Logs()

	if !commit || execResult.Status != types.ExecutionSuccess {
		h.StateDB.RevertToSnapshot(snapshot)
	}
	return execResult, nil
}

// TransactRef executes tx read-only: state writes never reach the overlay.
func (h *Harness) TransactRef(tx types.TxEnv) (types.ExecutionResult, error) {
	return h.run(tx, nil, false)
}

// TransactCommit executes tx and merges a successful result's writes into
// the overlay. Reverted/halted executions still roll back.
func (h *Harness) TransactCommit(tx types.TxEnv) (types.ExecutionResult, error) {
	return h.run(tx, nil, true)
}

// InspectRef is TransactRef with a tracer attached for the duration of the
// call. The tracer is handed in and handed back with the result; no shared
// ownership persists past this call (the cyclic-ownership design note).
func (h *Harness) InspectRef(tx types.TxEnv, tracer *tracing.Hooks) (types.ExecutionResult, error) {
	return h.run(tx, tracer, false)
}

// InspectCommit is TransactCommit with a tracer attached.
func (h *Harness) InspectCommit(tx types.TxEnv, tracer *tracing.Hooks) (types.ExecutionResult, error) {
	return h.run(tx, tracer, true)
}
