package mempool

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// subscriptionTopic is the pub-sub notification method that delivers full
// transaction bodies with each pending-transaction notification, avoiding a
// second round trip per transaction.
const subscriptionTopic = "newPendingTransactionsWithBody"

// PubSubCollector subscribes to a node's pending-transaction feed over a
// persistent RPC client (a websocket or IPC connection, never plain HTTP,
// since subscriptions require a stateful transport).
type PubSubCollector struct {
	client *rpc.Client
	log    log.Logger
}

// NewPubSubCollector wraps an already-dialed subscription-capable RPC
// client.
func NewPubSubCollector(client *rpc.Client) *PubSubCollector {
	return &PubSubCollector{client: client, log: log.Root().With("module", "mempool-collector")}
}

func (c *PubSubCollector) Stream(ctx context.Context) (<-chan *types.Transaction, <-chan error) {
	txCh := make(chan *types.Transaction)
	errCh := make(chan error, 1)

	notifications := make(chan *types.Transaction)
	sub, err := c.client.EthSubscribe(ctx, notifications, subscriptionTopic)
	if err != nil {
		errCh <- fmt.Errorf("subscribe to %s: %w", subscriptionTopic, err)
		close(txCh)
		return txCh, errCh
	}

	go func() {
		defer close(txCh)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					c.log.Warn("mempool subscription ended", "err", err)
				}
				return
			case tx := <-notifications:
				select {
				case txCh <- tx:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return txCh, errCh
}
