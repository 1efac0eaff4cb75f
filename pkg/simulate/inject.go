package simulate

import (
	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/constants"
	"github.com/sandwichlab/evaluator/pkg/harness"
)

// DeployMode selects whether a simulation injects synthetic bytecode for
// the contract it targets or assumes the contract is already deployed and
// funded on the pinned chain state. This is the Go runtime equivalent of
// the Rust predecessor's compile-time debug/release split.
type DeployMode int

const (
	// DeployModeInject deploys the contract's bytecode into the fork
	// overlay and pre-funds it, for use against local/throwaway test
	// chains or when the production contract has not yet been deployed
	// on the target chain.
	DeployModeInject DeployMode = iota
	// DeployModeAssumeDeployed assumes the contract already exists,
	// pre-funded, at its known address on the pinned chain state.
	DeployModeAssumeDeployed
)

// injectLilRouter funds the lil router controller with ETH for gas, deploys
// the helper router's bytecode at its fixed address, and sets a storage
// slot on the base-asset token so the router appears to hold the bot's
// notional inventory, matching lil_router.rs's fixture setup exactly.
func injectLilRouter(stateDB *harness.ForkStateDB) {
	gasFunding := new(uint256.Int).Mul(uint256.NewInt(10), uint256.NewInt(1_000_000_000_000_000_000))
	stateDB.InsertAccountInfo(constants.LilRouterController, gasFunding, 0, nil)
	stateDB.InsertAccountInfo(constants.LilRouterAddress, new(uint256.Int), 0, constants.LilRouterCode)

	slot := constants.ERC20BalanceSlot(constants.LilRouterAddress, constants.DefaultBalanceMappingSlot)
	var value [32]byte
	fundAmt := constants.WETHFundAmount.Bytes32()
	copy(value[:], fundAmt[:])
	stateDB.InsertAccountStorage(constants.WETHAddress, slot, value)
}

// injectSandwichContract deploys the production sandwich contract and
// pre-funds it with startBalance units of the base asset, used only under
// DeployModeInject.
func injectSandwichContract(stateDB *harness.ForkStateDB, startBalance *uint256.Int) {
	stateDB.InsertAccountInfo(constants.SandwichContractAddress, new(uint256.Int), 0, constants.SandwichContractCode)

	slot := constants.ERC20BalanceSlot(constants.SandwichContractAddress, constants.DefaultBalanceMappingSlot)
	var value [32]byte
	bal := startBalance.Bytes32()
	copy(value[:], bal[:])
	stateDB.InsertAccountStorage(constants.WETHAddress, slot, value)
}
