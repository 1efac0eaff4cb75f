// Command sandwich-evaluator is a long-running evaluator built around a
// urfave/cli app and a testable run(args) int entrypoint. It streams pending
// transactions from the mempool, constructs the search and recipe
// simulators, and adapts each transaction into a Meat; it does not run the
// searcher or the recipe builder itself (see handlePendingTransaction).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/urfave/cli/v2"

	"github.com/sandwichlab/evaluator/pkg/boot"
	"github.com/sandwichlab/evaluator/pkg/config"
	"github.com/sandwichlab/evaluator/pkg/harness"
	"github.com/sandwichlab/evaluator/pkg/mempool"
	"github.com/sandwichlab/evaluator/pkg/simulate"
	"github.com/sandwichlab/evaluator/pkg/types"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := &cli.App{
		Name:  "sandwich-evaluator",
		Usage: "evaluate and build sandwich opportunities against a forked EVM",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rpc-url", Required: true, Usage: "archival JSON-RPC endpoint"},
			&cli.Uint64Flag{Name: "pinned-block", Required: true, Usage: "block number to fork state from"},
			&cli.StringFlag{Name: "mempool-rpc-url", Usage: "subscription-capable RPC endpoint (defaults to rpc-url)"},
			&cli.Uint64Flag{Name: "inventory-wei", Required: true, Usage: "base-asset inventory cap in wei"},
			&cli.IntFlag{Name: "search-samples", Value: 0, Usage: "interior samples per search iteration (validated only; the searcher uses its fixed N)"},
			&cli.BoolFlag{Name: "inject-contracts", Value: true, Usage: "inject production sandwich bytecode into each recipe fork instead of assuming deployment (the search helper is always injected)"},
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Action: action,
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func action(c *cli.Context) error {
	cfg := &config.Config{
		RPCURL:        c.String("rpc-url"),
		PinnedBlock:   c.Uint64("pinned-block"),
		MempoolRPCURL: c.String("mempool-rpc-url"),
		InventoryWei:  c.Uint64("inventory-wei"),
		SearchSamples: c.Int("search-samples"),
		LogLevel:      c.String("log-level"),
	}
	if c.Bool("inject-contracts") {
		cfg.DeployMode = simulate.DeployModeInject
	} else {
		cfg.DeployMode = simulate.DeployModeAssumeDeployed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := boot.SetupLogger(cfg.LogLevel); err != nil {
		return err
	}
	boot.PrintBanner()

	logger := log.Root().With("module", "main")

	backend, err := harness.NewRPCSharedBackend(cfg.RPCURL, cfg.PinnedBlock)
	if err != nil {
		return fmt.Errorf("construct shared backend: %w", err)
	}

	chainConfig := params.MainnetChainConfig
	signer := gethtypes.LatestSignerForChainID(chainConfig.ChainID)

	searchSim := simulate.NewSearchSimulator(backend, chainConfig)
	recipeSim := simulate.NewRecipeSimulator(backend, chainConfig, cfg.DeployMode)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, draining")
		cancel()
	}()

	rpcClient, err := rpc.DialContext(ctx, cfg.MempoolRPCURL)
	if err != nil {
		return fmt.Errorf("dial mempool endpoint: %w", err)
	}
	collector := mempool.NewPubSubCollector(rpcClient)

	txCh, errCh := collector.Stream(ctx)

	logger.Info("evaluator started", "pinnedBlock", cfg.PinnedBlock, "inventoryWei", cfg.InventoryWei)

	for {
		select {
		case <-ctx.Done():
			logger.Info("evaluator stopped")
			return nil
		case err := <-errCh:
			return fmt.Errorf("mempool collector: %w", err)
		case tx, ok := <-txCh:
			if !ok {
				return nil
			}
			handlePendingTransaction(logger, signer, searchSim, recipeSim, tx)
		}
	}
}

// handlePendingTransaction adapts a raw pending transaction into a Meat.
// Pool discovery and sandwich-candidate identification (matching a meat
// against a tracked pool to assemble RawIngredients) sit upstream of this
// evaluator's scope, so this only logs the adapted meat a real caller would
// feed into searchSim/recipeSim once ingredients are assembled.
func handlePendingTransaction(logger log.Logger, signer gethtypes.Signer, searchSim *simulate.SearchSimulator, recipeSim *simulate.RecipeSimulator, tx *gethtypes.Transaction) {
	from, err := gethtypes.Sender(signer, tx)
	if err != nil {
		logger.Debug("dropping pending transaction with unrecoverable sender", "hash", tx.Hash(), "err", err)
		return
	}
	meat := types.MeatFromTransaction(tx, from)
	_ = searchSim
	_ = recipeSim
	logger.Debug("observed candidate meat", "hash", tx.Hash(), "from", meat.From, "to", meat.To)
}
