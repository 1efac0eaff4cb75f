package harness

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
)

// opcodesReadingSlot are the opcodes whose top-of-stack argument is a
// storage slot this transaction touches, the set this tracer needs to
// recognize to build an EIP-2930 access list.
var opcodesReadingSlot = map[vm.OpCode]bool{
	vm.SLOAD:  true,
	vm.SSTORE: true,
}

var opcodesReadingAddress = map[vm.OpCode]bool{
	vm.BALANCE:      true,
	vm.EXTCODESIZE:  true,
	vm.EXTCODECOPY:  true,
	vm.EXTCODEHASH:  true,
	vm.CALL:         true,
	vm.CALLCODE:     true,
	vm.DELEGATECALL: true,
	vm.STATICCALL:   true,
	vm.SELFDESTRUCT: true,
}

// callFamilyOpcodes pop gas as their top stack operand, so the callee
// address sits one slot deeper than for the other opcodesReadingAddress
// members (which have the address on top).
var callFamilyOpcodes = map[vm.OpCode]bool{
	vm.CALL:         true,
	vm.CALLCODE:     true,
	vm.DELEGATECALL: true,
	vm.STATICCALL:   true,
}

// AccessListTracer records every (address, slot) pair touched by opcodes
// during execution, producing the EIP-2930 access list for the transaction
// that produced it.
type AccessListTracer struct {
	from        common.Address
	to          common.Address
	precompiles map[common.Address]bool

	addresses map[common.Address]bool
	slots     map[common.Address]map[common.Hash]bool
}

// NewAccessListTracer seeds the tracer with the sender, the destination,
// and the chain's active precompiles, all of which are warm by default and
// excluded from the resulting access list.
func NewAccessListTracer(from, to common.Address, precompiles []common.Address) *AccessListTracer {
	t := &AccessListTracer{
		from:        from,
		to:          to,
		precompiles: make(map[common.Address]bool, len(precompiles)),
		addresses:   make(map[common.Address]bool),
		slots:       make(map[common.Address]map[common.Hash]bool),
	}
	for _, p := range precompiles {
		t.precompiles[p] = true
	}
	return t
}

// Hooks returns the tracing.Hooks value to attach to an inspect call.
func (t *AccessListTracer) Hooks() *tracing.Hooks {
	return &tracing.Hooks{
		OnOpcode: t.onOpcode,
	}
}

func (t *AccessListTracer) onOpcode(pc uint64, opByte byte, gas, cost uint64, scope tracing.OpContext, rData []byte, depth int, err error) {
	op := vm.OpCode(opByte)
	contract := scope.Address()

	if opcodesReadingSlot[op] {
		stack := scope.StackData()
		if len(stack) > 0 {
			slot := common.Hash(stack[len(stack)-1].Bytes32())
			t.addSlot(contract, slot)
		}
		return
	}

	if opcodesReadingAddress[op] {
		stack := scope.StackData()
		idx := len(stack) - 1
		if callFamilyOpcodes[op] {
			idx = len(stack) - 2
		}
		if idx >= 0 {
			addr := common.Address(stack[idx].Bytes20())
			t.addAddress(addr)
		}
	}
}

func (t *AccessListTracer) addAddress(addr common.Address) {
	if t.precompiles[addr] {
		return
	}
	t.addresses[addr] = true
}

func (t *AccessListTracer) addSlot(addr common.Address, slot common.Hash) {
	t.addresses[addr] = true
	if _, ok := t.slots[addr]; !ok {
		t.slots[addr] = make(map[common.Hash]bool)
	}
	t.slots[addr][slot] = true
}

// AccessList materializes the recorded touches as an EIP-2930 access list,
// excluding the sender and destination (those are warmed unconditionally by
// EIP-2929 and need not be listed explicitly).
func (t *AccessListTracer) AccessList() gethtypes.AccessList {
	var list gethtypes.AccessList
	for addr := range t.addresses {
		if addr == t.from || addr == t.to {
			continue
		}
		entry := gethtypes.AccessTuple{Address: addr}
		if slots, ok := t.slots[addr]; ok {
			for slot := range slots {
				entry.StorageKeys = append(entry.StorageKeys, slot)
			}
		}
		list = append(list, entry)
	}
	return list
}
