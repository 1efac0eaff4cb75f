package simulate

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/calldata"
	"github.com/sandwichlab/evaluator/pkg/constants"
	"github.com/sandwichlab/evaluator/pkg/harness"
	"github.com/sandwichlab/evaluator/pkg/simerr"
	"github.com/sandwichlab/evaluator/pkg/types"
)

// SearchSimulator evaluates candidate frontrun inputs against the lil
// router helper contract. Each call creates and discards its own fork:
// no simulation ever observes another's writes, matching the lifecycle in
// the data model.
type SearchSimulator struct {
	backend     harness.SharedBackend
	chainConfig *params.ChainConfig
	log         log.Logger
}

// NewSearchSimulator builds a search-path simulator reading through
// backend.
func NewSearchSimulator(backend harness.SharedBackend, chainConfig *params.ChainConfig) *SearchSimulator {
	return &SearchSimulator{
		backend:     backend,
		chainConfig: chainConfig,
		log:         log.Root().With("module", "search-simulator"),
	}
}

// EvaluateSandwichRevenue is a pure function of (frontrunIn, block,
// ingredients, shared backend): it funds a fresh fork, frontruns via the
// lil router, replays the meats (tolerating their individual failures),
// backruns, and returns the realized revenue, saturating at zero.
func (s *SearchSimulator) EvaluateSandwichRevenue(ctx context.Context, frontrunIn types.U256, block types.BlockInfo, ingredients types.RawIngredients) (types.U256, error) {
	stateDB := harness.NewForkStateDB(ctx, s.backend)
	h := harness.NewHarness(stateDB, s.chainConfig)
	h.SetupBlock(block)

	injectLilRouter(stateDB)

	isV2 := ingredients.TargetPool.Kind == types.PoolKindUniswapV2

	gasPrice := valueOrZero(block.BaseFeePerGas)

	frontData := buildSwapData(isV2, frontrunIn, ingredients.TargetPool.Address, true)
	frontTx := routerTx(frontData, gasPrice)

	frontResult, err := h.TransactCommit(frontTx)
	if err != nil {
		return nil, &simerr.SimulatorFault{Op: "frontrun transact", Err: err}
	}
	if err := resultError(frontResult, simerr.StageFrontrun); err != nil {
		return nil, err
	}

	_, backrunIn, ok := calldata.DecodeSwapOutput(frontResult.Output)
	if !ok {
		return nil, &simerr.SimulatorFault{Op: "decode frontrun output", Err: fmt.Errorf("short output: %d bytes", len(frontResult.Output))}
	}

	for i, meat := range ingredients.Meats {
		tx := meatToTxEnv(meat)
		if _, err := h.TransactCommit(tx); err != nil {
			s.log.Debug("meat simulation failed, tolerating", "index", i, "err", err)
		}
	}

	backData := buildSwapData(isV2, backrunIn, ingredients.TargetPool.Address, false)
	backTx := routerTx(backData, gasPrice)

	backResult, err := h.TransactCommit(backTx)
	if err != nil {
		return nil, &simerr.SimulatorFault{Op: "backrun transact", Err: err}
	}
	if err := resultError(backResult, simerr.StageBackrun); err != nil {
		return nil, err
	}

	_, postBalance, ok := calldata.DecodeSwapOutput(backResult.Output)
	if !ok {
		return nil, &simerr.SimulatorFault{Op: "decode backrun output", Err: fmt.Errorf("short output: %d bytes", len(backResult.Output))}
	}

	if postBalance.Cmp(constants.WETHFundAmount) <= 0 {
		return types.ZeroU256(), nil
	}
	return new(uint256.Int).Sub(postBalance, constants.WETHFundAmount), nil
}

func buildSwapData(isV2 bool, amount types.U256, pool types.Address, isFrontrun bool) []byte {
	if isV2 {
		return calldata.BuildSwapV2Data(amount, pool, isFrontrun)
	}
	return calldata.BuildSwapV3Data(amount, pool, isFrontrun)
}

// routerTx builds the lil router call envelope. gasPrice must be the
// target block's base fee: go-ethereum's state transition rejects a
// transaction whose fee cap sits below the block's base fee once London
// rules are active, so a zero gas price here would make every frontrun and
// backrun fail pre-check rather than execute.
func routerTx(data []byte, gasPrice types.U256) types.TxEnv {
	return types.TxEnv{
		Caller:   constants.LilRouterController,
		To:       constants.LilRouterAddress,
		Value:    types.ZeroU256(),
		Data:     data,
		GasLimit: 5_000_000,
		GasPrice: gasPrice,
	}
}

func resultError(res types.ExecutionResult, stage simerr.Stage) error {
	switch res.Status {
	case types.ExecutionReverted:
		return &simerr.ExecutionReverted{Stage: stage, Output: res.Output}
	case types.ExecutionHalted:
		return &simerr.ExecutionHalted{Stage: stage, Reason: res.HaltReason}
	default:
		return nil
	}
}
