// Package constants holds the process-wide, immutable addresses and
// selectors the evaluator's simulators are built around. These are
// well-known values, not configuration: initialized once, never mutated.
package constants

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var (
	// WETHAddress is the base-asset token the bot measures profit in.
	WETHAddress = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	// SugarDaddy is a synthetic, well-funded address spoofed as the caller
	// for read-only calls (getReserves, balanceOf) so no real account's
	// balance or nonce is disturbed.
	SugarDaddy = common.HexToAddress("0x000000000000000000000000000000000000aa")

	// LilRouterAddress is the fixed address the search-path helper router
	// is injected at.
	LilRouterAddress = common.HexToAddress("0x000000000000000000000000000000000000bb")

	// LilRouterController is funded with synthetic ETH to cover gas for
	// calls into the lil router during search.
	LilRouterController = common.HexToAddress("0x000000000000000000000000000000000000cc")

	// SandwichContractAddress is the fixed address the production sandwich
	// contract is either injected at (debug builds) or assumed already
	// deployed at (release builds).
	SandwichContractAddress = common.HexToAddress("0x000000000000000000000000000000000000dd")
)

// WETHFundAmount is the synthetic WETH balance granted to the lil router
// (LilRouterAddress) during search, matching the Rust source's 200 WETH
// fixture.
var WETHFundAmount = new(uint256.Int).Mul(uint256.NewInt(200), uint256.NewInt(1_000_000_000_000_000_000))

// GetReservesSelector is the 4-byte selector for UniswapV2Pair.getReserves().
var GetReservesSelector = crypto.Keccak256([]byte("getReserves()"))[:4]

// BalanceOfSelector is the 4-byte selector for IERC20.balanceOf(address).
var BalanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// ERC20BalanceSlot returns the storage slot backing owner's balance under
// the standard single-mapping ERC-20 layout (mapping declared at slot
// index 3, matching the production sandwich contract's WETH-compatible
// layout): keccak256(abi.encode(owner, uint256(mappingSlot))).
func ERC20BalanceSlot(owner common.Address, mappingSlot uint64) common.Hash {
	var buf [64]byte
	copy(buf[12:32], owner[:])
	slotBytes := uint256.NewInt(mappingSlot).Bytes32()
	copy(buf[32:64], slotBytes[:])
	return crypto.Keccak256Hash(buf[:])
}

// DefaultBalanceMappingSlot is the mapping slot index used by both the
// lil router's funding injection and the production contract's WETH
// balance spoof, matching the Rust source's literal 3.
const DefaultBalanceMappingSlot = 3

// LilRouterCode is the compiled bytecode of the search-path helper router.
// Compilation and storage of helper/production bytecode artifacts happen
// outside this module; this holds the process-global slot the harness
// injects into, left nil until wired by a deployment.
var LilRouterCode []byte

// SandwichContractCode is the compiled bytecode of the production sandwich
// contract, externally supplied the same way as LilRouterCode.
var SandwichContractCode []byte
