package harness

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"
)

// suspiciousOpcodes are opcodes known to be used by honeypot/anti-MEV
// contracts to discriminate a simulator from a real inclusion: reading
// caller-dependent environment data that a legitimate token transfer has no
// reason to branch on. This set is a policy parameter, not a protocol
// constant; any appearance of a member opcode during a sandwich-owned call
// frame is sufficient to classify the trace NotSafu.
var suspiciousOpcodes = map[vm.OpCode]bool{
	vm.COINBASE:   true,
	vm.TIMESTAMP:  true,
	vm.NUMBER:     true,
	vm.DIFFICULTY: true,
	vm.GASLIMIT:   true,
	vm.ORIGIN:     true,
	vm.EXTCODESIZE: true,
}

// SalmonellaInspector watches an execution trace for suspicious opcodes
// within the sandwich contract's own call frames. Safu() reports whether
// none were observed; SuspiciousOpcodes names the ones that were.
type SalmonellaInspector struct {
	sandwichAddress common.Address
	observed        map[vm.OpCode]bool
}

// NewSalmonellaInspector watches call frames executing as sandwichAddress.
func NewSalmonellaInspector(sandwichAddress common.Address) *SalmonellaInspector {
	return &SalmonellaInspector{
		sandwichAddress: sandwichAddress,
		observed:        make(map[vm.OpCode]bool),
	}
}

// Hooks returns the tracing.Hooks value to attach to an inspect call.
func (s *SalmonellaInspector) Hooks() *tracing.Hooks {
	return &tracing.Hooks{
		OnOpcode: s.onOpcode,
	}
}

func (s *SalmonellaInspector) onOpcode(pc uint64, opByte byte, gas, cost uint64, scope tracing.OpContext, rData []byte, depth int, err error) {
	if scope.Address() != s.sandwichAddress {
		return
	}
	op := vm.OpCode(opByte)
	if suspiciousOpcodes[op] {
		s.observed[op] = true
	}
}

// Safu reports whether the trace contained no suspicious opcodes.
func (s *SalmonellaInspector) Safu() bool {
	return len(s.observed) == 0
}

// SuspiciousOpcodes names every suspicious opcode observed, for inclusion
// in a NotSafu error.
func (s *SalmonellaInspector) SuspiciousOpcodes() []string {
	names := make([]string, 0, len(s.observed))
	for op := range s.observed {
		names = append(names, op.String())
	}
	return names
}
