// Package config defines the evaluator's runtime configuration, validated
// once at startup via Validate rather than ad hoc at each call site.
package config

import (
	"fmt"

	"github.com/sandwichlab/evaluator/pkg/simulate"
)

// Config is every knob the evaluator binary needs to wire a searcher and
// recipe builder end to end.
type Config struct {
	// RPCURL is the archival JSON-RPC endpoint the shared backend reads
	// through to.
	RPCURL string
	// PinnedBlock is the block number all simulations in a given run are
	// forked from.
	PinnedBlock uint64
	// MempoolRPCURL is the subscription-capable (websocket/IPC) endpoint
	// the mempool collector dials. May equal RPCURL.
	MempoolRPCURL string

	// InventoryWei is the base-asset inventory cap the searcher is
	// allowed to spend on a frontrun, in wei.
	InventoryWei uint64

	// SearchSamples is the requested number of interior samples per
	// search iteration. Validate rejects negative values; nothing else
	// reads it, and pkg/search always uses its fixed N.
	SearchSamples int

	// DeployMode controls whether the recipe simulator injects the
	// production contract's bytecode into each fork or assumes it is
	// already deployed on the target chain.
	DeployMode simulate.DeployMode

	// LogLevel is a slog-compatible level name ("debug", "info", "warn",
	// "error").
	LogLevel string
}

// Validate rejects configurations that cannot produce a working evaluator,
// failing fast at startup rather than during the first simulation.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("config: rpc-url is required")
	}
	if c.PinnedBlock == 0 {
		return fmt.Errorf("config: pinned-block must be nonzero")
	}
	if c.MempoolRPCURL == "" {
		c.MempoolRPCURL = c.RPCURL
	}
	if c.InventoryWei == 0 {
		return fmt.Errorf("config: inventory-wei must be nonzero")
	}
	if c.SearchSamples < 0 {
		return fmt.Errorf("config: search-samples must be non-negative")
	}
	return nil
}
