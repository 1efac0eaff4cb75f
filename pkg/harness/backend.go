package harness

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	lru "github.com/hashicorp/golang-lru/v2"
)

// AccountInfo is the subset of account state the shared backend can supply
// for an address that the local overlay has not touched.
type AccountInfo struct {
	Balance *big.Int
	Nonce   uint64
	Code    []byte
}

// SharedBackend is the read-through adapter over a pinned view of real
// chain state. It is immutable after construction: concurrent reads from
// many simulations are safe, and no method here ever observes a write made
// by any particular fork overlay.
type SharedBackend interface {
	Basic(ctx context.Context, addr common.Address) (AccountInfo, error)
	Storage(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error)
	BlockHash(ctx context.Context, number uint64) (common.Hash, error)
	CodeByHash(ctx context.Context, hash common.Hash) ([]byte, error)
}

// rpcBackend implements SharedBackend over a JSON-RPC archival endpoint
// pinned at a fixed block. Repeated fetches of the same slot or account are
// served from an LRU cache rather than re-hitting the RPC endpoint.
type rpcBackend struct {
	client      *ethclient.Client
	pinnedBlock uint64

	accountCache *lru.Cache[common.Address, AccountInfo]
	storageCache *lru.Cache[storageKey, common.Hash]
	codeCache    *lru.Cache[common.Hash, []byte]
}

type storageKey struct {
	addr common.Address
	slot common.Hash
}

const defaultCacheSize = 100_000

// NewRPCSharedBackend dials an archival JSON-RPC endpoint and pins all
// reads to pinnedBlock.
func NewRPCSharedBackend(rpcURL string, pinnedBlock uint64) (SharedBackend, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial shared backend %q: %w", rpcURL, err)
	}

	accountCache, err := lru.New[common.Address, AccountInfo](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("allocate account cache: %w", err)
	}
	storageCache, err := lru.New[storageKey, common.Hash](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("allocate storage cache: %w", err)
	}
	codeCache, err := lru.New[common.Hash, []byte](4096)
	if err != nil {
		return nil, fmt.Errorf("allocate code cache: %w", err)
	}

	return &rpcBackend{
		client:       client,
		pinnedBlock:  pinnedBlock,
		accountCache: accountCache,
		storageCache: storageCache,
		codeCache:    codeCache,
	}, nil
}

func (b *rpcBackend) Basic(ctx context.Context, addr common.Address) (AccountInfo, error) {
	if info, ok := b.accountCache.Get(addr); ok {
		return info, nil
	}

	blockNumber := new(big.Int).SetUint64(b.pinnedBlock)
	balance, err := b.client.BalanceAt(ctx, addr, blockNumber)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("fetch balance for %s at block %d: %w", addr, b.pinnedBlock, err)
	}
	nonce, err := b.client.NonceAt(ctx, addr, blockNumber)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("fetch nonce for %s at block %d: %w", addr, b.pinnedBlock, err)
	}
	code, err := b.client.CodeAt(ctx, addr, blockNumber)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("fetch code for %s at block %d: %w", addr, b.pinnedBlock, err)
	}

	info := AccountInfo{Balance: balance, Nonce: nonce, Code: code}
	b.accountCache.Add(addr, info)
	return info, nil
}

func (b *rpcBackend) Storage(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	key := storageKey{addr: addr, slot: slot}
	if v, ok := b.storageCache.Get(key); ok {
		return v, nil
	}

	blockNumber := new(big.Int).SetUint64(b.pinnedBlock)
	value, err := b.client.StorageAt(ctx, addr, slot, blockNumber)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch storage %s[%s] at block %d: %w", addr, slot, b.pinnedBlock, err)
	}
	hash := common.BytesToHash(value)
	b.storageCache.Add(key, hash)
	return hash, nil
}

func (b *rpcBackend) BlockHash(ctx context.Context, number uint64) (common.Hash, error) {
	header, err := b.client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch header for block %d: %w", number, err)
	}
	return header.Hash(), nil
}

func (b *rpcBackend) CodeByHash(ctx context.Context, hash common.Hash) ([]byte, error) {
	if code, ok := b.codeCache.Get(hash); ok {
		return code, nil
	}
	return nil, fmt.Errorf("code for hash %s not resolvable without an address (use Basic instead)", hash)
}
