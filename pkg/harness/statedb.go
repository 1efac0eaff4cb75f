package harness

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// account is the overlay's mutable view of one address. An account is
// loaded from the shared backend in full the first time its address is
// touched; since a zero balance or empty code is indistinguishable from
// "not fetched", presence in the accounts map (regardless of field values)
// is what marks an address as loaded.
type account struct {
	balance     *uint256.Int
	nonce       uint64
	code        []byte
	codeHash    common.Hash
	storage     map[common.Hash]common.Hash
	destructed  bool
	newlyCreate bool
}

func newAccount() *account {
	return &account{storage: make(map[common.Hash]common.Hash)}
}

// journalEntry undoes one mutation to the overlay on RevertToSnapshot.
type journalEntry func(s *ForkStateDB)

// ForkStateDB is an in-memory overlay over a SharedBackend, implementing
// go-ethereum's core/vm.StateDB interface so the real go-ethereum EVM can
// execute against it exactly as pkg/geth/processor.go drives it against a
// committed trie. Every simulation owns one ForkStateDB exclusively; no
// simulation ever observes another's writes, and writes are never flushed
// back to the shared backend.
type ForkStateDB struct {
	ctx     context.Context
	backend SharedBackend

	accounts map[common.Address]*account

	refund uint64
	logs   []*types.Log

	accessListAddrs map[common.Address]struct{}
	accessListSlots map[common.Address]map[common.Hash]struct{}

	transient map[common.Address]map[common.Hash]common.Hash

	journal    []journalEntry
	snapshotID int
}

// NewForkStateDB creates an empty overlay reading through to backend.
func NewForkStateDB(ctx context.Context, backend SharedBackend) *ForkStateDB {
	return &ForkStateDB{
		ctx:             ctx,
		backend:         backend,
		accounts:        make(map[common.Address]*account),
		accessListAddrs: make(map[common.Address]struct{}),
		accessListSlots: make(map[common.Address]map[common.Hash]struct{}),
		transient:       make(map[common.Address]map[common.Hash]common.Hash),
	}
}

func (s *ForkStateDB) getOrLoad(addr common.Address) *account {
	if a, ok := s.accounts[addr]; ok {
		return a
	}
	a := newAccount()
	if info, err := s.backend.Basic(s.ctx, addr); err == nil {
		if info.Balance != nil {
			bal, overflow := uint256.FromBig(info.Balance)
			if !overflow {
				a.balance = bal
			}
		}
		a.nonce = info.Nonce
		a.code = info.Code
		if len(info.Code) > 0 {
			a.codeHash = common.BytesToHash(crypto256(info.Code))
		}
	}
	if a.balance == nil {
		a.balance = new(uint256.Int)
	}
	s.accounts[addr] = a
	return a
}

// InsertAccountInfo injects synthetic state directly into the overlay,
// bypassing the shared backend. Used to deploy helper/production contract
// bytecode and pre-fund controller accounts.
func (s *ForkStateDB) InsertAccountInfo(addr common.Address, balance *uint256.Int, nonce uint64, code []byte) {
	a := newAccount()
	a.balance = balance
	a.nonce = nonce
	a.code = code
	if len(code) > 0 {
		a.codeHash = common.BytesToHash(crypto256(code))
	}
	s.accounts[addr] = a
}

// InsertAccountStorage injects a single synthetic storage slot.
func (s *ForkStateDB) InsertAccountStorage(addr common.Address, slot common.Hash, value common.Hash) {
	a := s.getOrLoad(addr)
	a.storage[slot] = value
}

// --- core/vm.StateDB ---

func (s *ForkStateDB) CreateAccount(addr common.Address) {
	s.journal = append(s.journal, func(s *ForkStateDB) { delete(s.accounts, addr) })
	a := newAccount()
	a.newlyCreate = true
	s.accounts[addr] = a
}

func (s *ForkStateDB) CreateContract(addr common.Address) {
	a := s.getOrLoad(addr)
	a.newlyCreate = true
}

func (s *ForkStateDB) SubBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason) {
	a := s.getOrLoad(addr)
	prev := new(uint256.Int).Set(a.balance)
	s.journal = append(s.journal, func(s *ForkStateDB) { s.accounts[addr].balance = prev })
	a.balance = new(uint256.Int).Sub(a.balance, amount)
}

func (s *ForkStateDB) AddBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason) {
	a := s.getOrLoad(addr)
	prev := new(uint256.Int).Set(a.balance)
	s.journal = append(s.journal, func(s *ForkStateDB) { s.accounts[addr].balance = prev })
	a.balance = new(uint256.Int).Add(a.balance, amount)
}

func (s *ForkStateDB) GetBalance(addr common.Address) *uint256.Int {
	return new(uint256.Int).Set(s.getOrLoad(addr).balance)
}

func (s *ForkStateDB) GetNonce(addr common.Address) uint64 {
	return s.getOrLoad(addr).nonce
}

func (s *ForkStateDB) SetNonce(addr common.Address, nonce uint64) {
	a := s.getOrLoad(addr)
	prev := a.nonce
	s.journal = append(s.journal, func(s *ForkStateDB) { s.accounts[addr].nonce = prev })
	a.nonce = nonce
}

func (s *ForkStateDB) GetCodeHash(addr common.Address) common.Hash {
	return s.getOrLoad(addr).codeHash
}

func (s *ForkStateDB) GetCode(addr common.Address) []byte {
	return s.getOrLoad(addr).code
}

func (s *ForkStateDB) SetCode(addr common.Address, code []byte) {
	a := s.getOrLoad(addr)
	prevCode, prevHash := a.code, a.codeHash
	s.journal = append(s.journal, func(s *ForkStateDB) {
		s.accounts[addr].code, s.accounts[addr].codeHash = prevCode, prevHash
	})
	a.code = code
	a.codeHash = common.BytesToHash(crypto256(code))
}

func (s *ForkStateDB) GetCodeSize(addr common.Address) int {
	return len(s.getOrLoad(addr).code)
}

func (s *ForkStateDB) AddRefund(gas uint64) {
	prev := s.refund
	s.journal = append(s.journal, func(s *ForkStateDB) { s.refund = prev })
	s.refund += gas
}

func (s *ForkStateDB) SubRefund(gas uint64) {
	prev := s.refund
	s.journal = append(s.journal, func(s *ForkStateDB) { s.refund = prev })
	if gas > s.refund {
		s.refund = 0
		return
	}
	s.refund -= gas
}

func (s *ForkStateDB) GetRefund() uint64 { return s.refund }

func (s *ForkStateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	a := s.getOrLoad(addr)
	if v, ok := a.storage[key]; ok {
		return v
	}
	v, err := s.backend.Storage(s.ctx, addr, key)
	if err != nil {
		return common.Hash{}
	}
	return v
}

func (s *ForkStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	a := s.getOrLoad(addr)
	if v, ok := a.storage[key]; ok {
		return v
	}
	return s.GetCommittedState(addr, key)
}

func (s *ForkStateDB) SetState(addr common.Address, key, value common.Hash) {
	a := s.getOrLoad(addr)
	prev, had := a.storage[key]
	s.journal = append(s.journal, func(s *ForkStateDB) {
		if had {
			s.accounts[addr].storage[key] = prev
		} else {
			delete(s.accounts[addr].storage, key)
		}
	})
	a.storage[key] = value
}

func (s *ForkStateDB) GetStorageRoot(addr common.Address) common.Hash {
	return common.Hash{}
}

func (s *ForkStateDB) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	if m, ok := s.transient[addr]; ok {
		return m[key]
	}
	return common.Hash{}
}

func (s *ForkStateDB) SetTransientState(addr common.Address, key, value common.Hash) {
	if _, ok := s.transient[addr]; !ok {
		s.transient[addr] = make(map[common.Hash]common.Hash)
	}
	s.transient[addr][key] = value
}

func (s *ForkStateDB) SelfDestruct(addr common.Address) {
	a := s.getOrLoad(addr)
	prev := a.destructed
	s.journal = append(s.journal, func(s *ForkStateDB) { s.accounts[addr].destructed = prev })
	a.destructed = true
}

func (s *ForkStateDB) HasSelfDestructed(addr common.Address) bool {
	return s.getOrLoad(addr).destructed
}

func (s *ForkStateDB) Selfdestruct6780(addr common.Address) {
	s.SelfDestruct(addr)
}

func (s *ForkStateDB) Exist(addr common.Address) bool {
	_, ok := s.accounts[addr]
	if ok {
		return true
	}
	info, err := s.backend.Basic(s.ctx, addr)
	if err != nil {
		return false
	}
	return info.Nonce != 0 || (info.Balance != nil && info.Balance.Sign() != 0) || len(info.Code) > 0
}

func (s *ForkStateDB) Empty(addr common.Address) bool {
	a := s.getOrLoad(addr)
	return a.nonce == 0 && a.balance.Sign() == 0 && len(a.code) == 0
}

func (s *ForkStateDB) AddressInAccessList(addr common.Address) bool {
	_, ok := s.accessListAddrs[addr]
	return ok
}

func (s *ForkStateDB) SlotInAccessList(addr common.Address, slot common.Hash) (addressOk bool, slotOk bool) {
	addressOk = s.AddressInAccessList(addr)
	if m, ok := s.accessListSlots[addr]; ok {
		_, slotOk = m[slot]
	}
	return
}

func (s *ForkStateDB) AddAddressToAccessList(addr common.Address) {
	s.accessListAddrs[addr] = struct{}{}
}

func (s *ForkStateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	s.accessListAddrs[addr] = struct{}{}
	if _, ok := s.accessListSlots[addr]; !ok {
		s.accessListSlots[addr] = make(map[common.Hash]struct{})
	}
	s.accessListSlots[addr][slot] = struct{}{}
}

func (s *ForkStateDB) Prepare(rules params.Rules, sender, coinbase common.Address, dest *common.Address, precompiles []common.Address, txAccesses types.AccessList) {
	s.accessListAddrs = make(map[common.Address]struct{})
	s.accessListSlots = make(map[common.Address]map[common.Hash]struct{})

	s.AddAddressToAccessList(sender)
	if dest != nil {
		s.AddAddressToAccessList(*dest)
	}
	for _, addr := range precompiles {
		s.AddAddressToAccessList(addr)
	}
	if rules.IsBerlin {
		s.AddAddressToAccessList(coinbase)
	}
	for _, el := range txAccesses {
		s.AddAddressToAccessList(el.Address)
		for _, key := range el.StorageKeys {
			s.AddSlotToAccessList(el.Address, key)
		}
	}
}

func (s *ForkStateDB) RevertToSnapshot(id int) {
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i](s)
	}
	s.journal = s.journal[:id]
}

func (s *ForkStateDB) Snapshot() int {
	return len(s.journal)
}

func (s *ForkStateDB) AddLog(log *types.Log) {
	s.logs = append(s.logs, log)
}

func (s *ForkStateDB) AddPreimage(hash common.Hash, preimage []byte) {}

func (s *ForkStateDB) ForEachStorage(addr common.Address, fn func(common.Hash, common.Hash) bool) error {
	a := s.getOrLoad(addr)
	for k, v := range a.storage {
		if !fn(k, v) {
			break
		}
	}
	return nil
}

// Logs returns every log emitted since the overlay was created.
func (s *ForkStateDB) Logs() []*types.Log { return s.logs }

// Balance is a convenience accessor returning addr's balance as a fresh
// *big.Int.
func (s *ForkStateDB) Balance(addr common.Address) *big.Int {
	return s.getOrLoad(addr).balance.ToBig()
}
