// Package types holds the value types shared across the evaluator: chain
// primitives, the pool/meat/ingredient inputs to a search, and the recipe
// produced at its end.
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// Address and Hash are the EVM's 20-byte account identifier and 32-byte
// hash, reused directly from go-ethereum rather than redefined.
type Address = common.Address

type Hash = common.Hash

// U256 is an unsigned 256-bit integer with wrapping and checked arithmetic.
// All EVM values in this module flow through it.
type U256 = *uint256.Int

// ZeroU256 returns a fresh zero-valued U256. uint256.NewInt(0) would also
// work but this name documents intent at call sites that build up a result.
func ZeroU256() U256 {
	return uint256.NewInt(0)
}

// BlockInfo seeds the EVM environment so a simulation behaves as if included
// in a specific target block.
type BlockInfo struct {
	Number        uint64
	Timestamp     uint64
	BaseFeePerGas U256
}

// PoolKind distinguishes the two AMM variants this evaluator understands.
type PoolKind int

const (
	PoolKindUniswapV2 PoolKind = iota
	PoolKindUniswapV3
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindUniswapV2:
		return "UniswapV2"
	case PoolKindUniswapV3:
		return "UniswapV3"
	default:
		return "unknown"
	}
}

// Pool identifies an AMM pool and its two tokens. V3Fee is meaningful only
// when Kind is PoolKindUniswapV3. Reserves are never cached here — they are
// read from chain state at simulation time.
type Pool struct {
	Kind    PoolKind
	Address Address
	TokenA  Address
	TokenB  Address
	V3Fee   uint32
}

// ReservesOrdered returns the pool's tokens as (token0, token1), the
// lexicographically smaller address first, matching the convention that it
// is reserves_0.
func (p Pool) ReservesOrdered() (token0, token1 Address) {
	if bytesLess(p.TokenA[:], p.TokenB[:]) {
		return p.TokenA, p.TokenB
	}
	return p.TokenB, p.TokenA
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Meat is a deserialized pending transaction to be sandwiched. Meats are
// consumed in the order given and simulated with nonce checks disabled.
type Meat struct {
	From                 Address
	To                   Address
	Input                []byte
	Value                U256
	Gas                  uint64
	GasPrice             U256 // type-0
	MaxFeePerGas         U256 // type-2
	MaxPriorityFeePerGas U256 // type-2
	ChainID              U256
	TransactionType      uint8
}

// RawIngredients is the caller-presented description of a candidate
// sandwich: the pool under attack, its victims, and the token identities
// that the search path and recipe path reason about.
type RawIngredients struct {
	TargetPool        Pool
	Meats             []Meat
	StartEndToken     Address
	IntermediaryToken Address
}

// TxEnv fully specifies a transaction: caller, destination, value, calldata,
// gas limit, gas pricing, and (once computed) an EIP-2930 access list.
type TxEnv struct {
	Caller       Address
	To           Address
	Value        U256
	Data         []byte
	GasLimit     uint64
	GasPrice     U256
	AccessList   types.AccessList
}

// SandwichRecipe is the terminal value produced by the recipe-path
// simulator: both transaction environments, their gas measurements, the
// meats that actually survived simulation, the realized revenue, and the
// block the recipe targets.
type SandwichRecipe struct {
	FrontrunTxEnv   TxEnv
	FrontrunGasUsed uint64
	FilteredMeats   []Meat
	BackrunTxEnv    TxEnv
	BackrunGasUsed  uint64
	Revenue         U256
	Block           BlockInfo
}

// ExecutionStatus tags the three lawful outcomes of a simulated transaction.
type ExecutionStatus int

const (
	ExecutionSuccess ExecutionStatus = iota
	ExecutionReverted
	ExecutionHalted
)

// ExecutionResult is the outcome of a single transact/inspect call. Callers
// must discriminate on Status before trusting Output/Logs: Halt and Revert
// are not Go errors, they are lawful EVM outcomes carried in-band.
type ExecutionResult struct {
	Status     ExecutionStatus
	GasUsed    uint64
	Output     []byte
	Logs       []*types.Log
	HaltReason error
}

func (r ExecutionResult) Success() bool {
	return r.Status == ExecutionSuccess
}
