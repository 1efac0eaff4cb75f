package harness

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/holiman/uint256"
)

type fakeBackend struct {
	accounts map[common.Address]AccountInfo
	storage  map[common.Address]map[common.Hash]common.Hash
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		accounts: make(map[common.Address]AccountInfo),
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
	}
}

func (f *fakeBackend) Basic(ctx context.Context, addr common.Address) (AccountInfo, error) {
	if info, ok := f.accounts[addr]; ok {
		return info, nil
	}
	return AccountInfo{}, nil
}

func (f *fakeBackend) Storage(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	if m, ok := f.storage[addr]; ok {
		return m[slot], nil
	}
	return common.Hash{}, nil
}

func (f *fakeBackend) BlockHash(ctx context.Context, number uint64) (common.Hash, error) {
	return common.Hash{}, nil
}

func (f *fakeBackend) CodeByHash(ctx context.Context, hash common.Hash) ([]byte, error) {
	return nil, nil
}

func TestForkStateDBReadsThroughToBackend(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	backend.accounts[addr] = AccountInfo{Nonce: 7}

	db := NewForkStateDB(context.Background(), backend)
	if got := db.GetNonce(addr); got != 7 {
		t.Fatalf("GetNonce = %d, want 7", got)
	}
}

func TestForkStateDBOverlayNeverWritesBackend(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x2222222222222222222222222222222222222222")

	db := NewForkStateDB(context.Background(), backend)
	db.AddBalance(addr, uint256.NewInt(100), tracing.BalanceChangeUnspecified)

	if got := db.GetBalance(addr); got.Uint64() != 100 {
		t.Fatalf("GetBalance = %d, want 100", got.Uint64())
	}

	// A fresh overlay over the same (unchanged) backend must not see the
	// previous overlay's write.
	db2 := NewForkStateDB(context.Background(), backend)
	if got := db2.GetBalance(addr); got.Sign() != 0 {
		t.Fatalf("fresh overlay saw prior overlay's write: balance=%d", got.Uint64())
	}
}

func TestForkStateDBSnapshotRevert(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x3333333333333333333333333333333333333333")

	db := NewForkStateDB(context.Background(), backend)
	db.AddBalance(addr, uint256.NewInt(50), tracing.BalanceChangeUnspecified)

	snap := db.Snapshot()
	db.AddBalance(addr, uint256.NewInt(25), tracing.BalanceChangeUnspecified)
	if got := db.GetBalance(addr); got.Uint64() != 75 {
		t.Fatalf("GetBalance after second add = %d, want 75", got.Uint64())
	}

	db.RevertToSnapshot(snap)
	if got := db.GetBalance(addr); got.Uint64() != 50 {
		t.Fatalf("GetBalance after revert = %d, want 50", got.Uint64())
	}
}

func TestForkStateDBStorageSnapshotRevert(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x4444444444444444444444444444444444444444")
	key := common.HexToHash("0x01")

	db := NewForkStateDB(context.Background(), backend)
	snap := db.Snapshot()
	db.SetState(addr, key, common.HexToHash("0xaa"))
	db.RevertToSnapshot(snap)

	if got := db.GetState(addr, key); got != (common.Hash{}) {
		t.Fatalf("GetState after revert = %s, want zero hash", got.Hex())
	}
}

func TestForkStateDBInsertAccountInfoBypassesBackend(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x5555555555555555555555555555555555555555")

	db := NewForkStateDB(context.Background(), backend)
	db.InsertAccountInfo(addr, uint256.NewInt(1_000), 3, []byte{0x60, 0x00})

	if got := db.GetNonce(addr); got != 3 {
		t.Fatalf("GetNonce = %d, want 3", got)
	}
	if got := db.GetBalance(addr); got.Uint64() != 1_000 {
		t.Fatalf("GetBalance = %d, want 1000", got.Uint64())
	}
	if got := db.GetCodeSize(addr); got != 2 {
		t.Fatalf("GetCodeSize = %d, want 2", got)
	}
}

func TestAccessListTracerExcludesSenderAndDestination(t *testing.T) {
	from := common.HexToAddress("0x6666666666666666666666666666666666666666")
	to := common.HexToAddress("0x7777777777777777777777777777777777777777")

	tracer := NewAccessListTracer(from, to, nil)
	tracer.addAddress(from)
	tracer.addAddress(to)
	other := common.HexToAddress("0x8888888888888888888888888888888888888888")
	tracer.addAddress(other)

	list := tracer.AccessList()
	if len(list) != 1 || list[0].Address != other {
		t.Fatalf("expected access list to contain only %s, got %+v", other, list)
	}
}

func TestSalmonellaInspectorSafuByDefault(t *testing.T) {
	s := NewSalmonellaInspector(common.HexToAddress("0x9999999999999999999999999999999999999999"))
	if !s.Safu() {
		t.Fatalf("expected Safu() true before any opcode observed")
	}
	if len(s.SuspiciousOpcodes()) != 0 {
		t.Fatalf("expected no suspicious opcodes before any observed")
	}
}
