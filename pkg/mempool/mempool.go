// Package mempool supplies the evaluator with a lazy, potentially-infinite
// stream of pending transactions, backed by the same subscription contract
// a MempoolCollector would expose over a node's pending-transaction feed.
package mempool

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
)

// Collector produces a stream of pending transactions. The stream may fail
// once at construction, surfaced as a single value on the error channel
// rather than as a stream element.
type Collector interface {
	// Stream returns a channel of pending transactions and a one-shot
	// error channel. The transaction channel closes when ctx is
	// cancelled; the error channel fires at most once, only on a
	// construction-time subscription failure.
	Stream(ctx context.Context) (<-chan *types.Transaction, <-chan error)
}
