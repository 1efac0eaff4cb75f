package simulate

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/ammmath"
	"github.com/sandwichlab/evaluator/pkg/calldata"
	"github.com/sandwichlab/evaluator/pkg/codec"
	"github.com/sandwichlab/evaluator/pkg/constants"
	"github.com/sandwichlab/evaluator/pkg/harness"
	"github.com/sandwichlab/evaluator/pkg/simerr"
	"github.com/sandwichlab/evaluator/pkg/types"
)

// RecipeSimulator re-runs the three sandwich stages at a chosen optimum
// against the production sandwich contract, producing a fully-validated
// SandwichRecipe.
type RecipeSimulator struct {
	backend     harness.SharedBackend
	chainConfig *params.ChainConfig
	deployMode  DeployMode
	log         log.Logger
}

// NewRecipeSimulator builds a recipe-path simulator reading through
// backend. deployMode controls whether the production contract is injected
// fresh into each fork or assumed already deployed.
func NewRecipeSimulator(backend harness.SharedBackend, chainConfig *params.ChainConfig, deployMode DeployMode) *RecipeSimulator {
	return &RecipeSimulator{
		backend:     backend,
		chainConfig: chainConfig,
		deployMode:  deployMode,
		log:         log.Root().With("module", "recipe-simulator"),
	}
}

// CreateRecipe executes the full recipe protocol (§4.E) at optimalIn and
// returns the resulting SandwichRecipe, or an error naming the stage and
// cause of failure (SimulatorFault, ExecutionReverted/Halted, or NotSafu).
func (r *RecipeSimulator) CreateRecipe(
	ctx context.Context,
	ingredients types.RawIngredients,
	nextBlock types.BlockInfo,
	optimalIn types.U256,
	sandwichStartBal types.U256,
	searcher types.Address,
) (*types.SandwichRecipe, error) {
	stateDB := harness.NewForkStateDB(ctx, r.backend)
	h := harness.NewHarness(stateDB, r.chainConfig)
	h.SetupBlock(nextBlock)

	if r.deployMode == DeployModeInject {
		injectSandwichContract(stateDB, sandwichStartBal)
	}

	pool := ingredients.TargetPool
	isV2 := pool.Kind == types.PoolKindUniswapV2
	gasPrice := valueOrZero(nextBlock.BaseFeePerGas)

	frontrunIn := codec.RoundTripWETH(optimalIn)

	frontrunOut := types.ZeroU256()
	if isV2 {
		reserve0, reserve1, err := getReserves(h, pool.Address, gasPrice)
		if err != nil {
			return nil, &simerr.SimulatorFault{Op: "frontrun getReserves", Err: err}
		}
		reserveIn, reserveOut := reservesForTokens(pool, reserve0, reserve1, ingredients.StartEndToken)
		frontrunOut = ammmath.V2AmountOut(frontrunIn, reserveIn, reserveOut, ammmath.DefaultFeeBps)
	}

	var frontData []byte
	var frontValue types.U256
	if isV2 {
		frontData, frontValue = calldata.V2CreateFrontrunPayload(pool.Address, ingredients.IntermediaryToken, frontrunIn, frontrunOut)
	} else {
		frontData, frontValue = calldata.V3CreateFrontrunPayload(pool.Address, ingredients.IntermediaryToken, frontrunIn)
	}

	frontrunTxEnv, frontrunGasUsed, err := r.twoPhaseExecute(h, searcher, frontData, frontValue, gasPrice, simerr.StageFrontrun)
	if err != nil {
		return nil, err
	}

	filteredMeats := make([]types.Meat, 0, len(ingredients.Meats))
	for _, meat := range ingredients.Meats {
		tx := meatToTxEnv(meat)
		res, err := h.TransactCommit(tx)
		if err != nil {
			r.log.Debug("meat fault, dropping", "err", err)
			continue
		}
		if res.Status == types.ExecutionSuccess {
			filteredMeats = append(filteredMeats, meat)
		}
	}

	backrunInRaw, err := balanceOf(h, ingredients.IntermediaryToken, constants.SandwichContractAddress, gasPrice)
	if err != nil {
		return nil, &simerr.SimulatorFault{Op: "backrun balanceOf", Err: err}
	}

	backrunMeta := codec.EncodeFiveByte(backrunInRaw, 1)
	if isV2 {
		backrunMeta.DecrementFourBytes()
	}
	backrunIn := backrunMeta.Decode()

	backrunOut := types.ZeroU256()
	if isV2 {
		reserve0, reserve1, err := getReserves(h, pool.Address, gasPrice)
		if err != nil {
			return nil, &simerr.SimulatorFault{Op: "backrun getReserves", Err: err}
		}
		reserveIn, reserveOut := reservesForTokens(pool, reserve0, reserve1, ingredients.IntermediaryToken)
		backrunOut = ammmath.V2AmountOut(backrunIn, reserveIn, reserveOut, ammmath.DefaultFeeBps)
	}

	var backData []byte
	var backValue types.U256
	if isV2 {
		backData, backValue = calldata.V2CreateBackrunPayload(pool.Address, ingredients.IntermediaryToken, backrunIn, backrunOut)
	} else {
		backData, backValue = calldata.V3CreateBackrunPayload(pool.Address, ingredients.IntermediaryToken, backrunIn)
	}

	backrunTxEnv, backrunGasUsed, err := r.twoPhaseExecute(h, searcher, backData, backValue, gasPrice, simerr.StageBackrun)
	if err != nil {
		return nil, err
	}

	postBalance, err := balanceOf(h, ingredients.StartEndToken, constants.SandwichContractAddress, gasPrice)
	if err != nil {
		return nil, &simerr.SimulatorFault{Op: "post-sandwich balanceOf", Err: err}
	}

	revenue := types.ZeroU256()
	if postBalance.Cmp(sandwichStartBal) > 0 {
		revenue = new(uint256.Int).Sub(postBalance, sandwichStartBal)
	}

	return &types.SandwichRecipe{
		FrontrunTxEnv:   frontrunTxEnv,
		FrontrunGasUsed: frontrunGasUsed,
		FilteredMeats:   filteredMeats,
		BackrunTxEnv:    backrunTxEnv,
		BackrunGasUsed:  backrunGasUsed,
		Revenue:         revenue,
		Block:           nextBlock,
	}, nil
}

// twoPhaseExecute implements the "access list first, salmonella-audited
// commit second" protocol shared by the frontrun and backrun stages. The
// first phase's gas measurement is unreliable (cold-slot pricing); only the
// second phase's gas_used is returned. gasPrice must be the target block's
// base fee — go-ethereum's London fee-cap pre-check rejects a transaction
// priced below it.
func (r *RecipeSimulator) twoPhaseExecute(h *harness.Harness, caller types.Address, data []byte, value, gasPrice types.U256, stage simerr.Stage) (types.TxEnv, uint64, error) {
	baseTx := types.TxEnv{
		Caller:   caller,
		To:       constants.SandwichContractAddress,
		Value:    value,
		Data:     data,
		GasLimit: 2_000_000,
		GasPrice: gasPrice,
	}

	accessListTracer := harness.NewAccessListTracer(caller, constants.SandwichContractAddress, nil)
	if _, err := h.InspectRef(baseTx, accessListTracer.Hooks()); err != nil {
		return types.TxEnv{}, 0, &simerr.SimulatorFault{Op: fmt.Sprintf("%s access-list trace", stage), Err: err}
	}

	tx := baseTx
	tx.AccessList = accessListTracer.AccessList()

	salmonella := harness.NewSalmonellaInspector(constants.SandwichContractAddress)
	result, err := h.InspectCommit(tx, salmonella.Hooks())
	if err != nil {
		return types.TxEnv{}, 0, &simerr.SimulatorFault{Op: fmt.Sprintf("%s commit", stage), Err: err}
	}
	if err := resultError(result, stage); err != nil {
		return types.TxEnv{}, 0, err
	}
	if !salmonella.Safu() {
		return types.TxEnv{}, 0, &simerr.NotSafu{Stage: stage, SuspiciousOpcodes: salmonella.SuspiciousOpcodes()}
	}

	return tx, result.GasUsed, nil
}
