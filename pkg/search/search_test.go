package search

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/simerr"
	"github.com/sandwichlab/evaluator/pkg/types"
)

func TestFindOptimalInputZeroInventoryReturnsZeroImmediately(t *testing.T) {
	called := false
	optimal, err := FindOptimalInput(context.Background(), uint256.NewInt(0), func(ctx context.Context, in types.U256) (types.U256, error) {
		called = true
		return types.ZeroU256(), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if optimal.Sign() != 0 {
		t.Fatalf("expected 0, got %s", optimal.String())
	}
	if called {
		t.Fatalf("expected no evaluation for zero inventory")
	}
}

func TestFindOptimalInputConvergesOnUnimodalPeak(t *testing.T) {
	inventory := uint256.NewInt(1_000_000)
	peak := uint256.NewInt(400_000)

	revenueAt := func(in types.U256) types.U256 {
		var distance *uint256.Int
		if in.Cmp(peak) >= 0 {
			distance = new(uint256.Int).Sub(in, peak)
		} else {
			distance = new(uint256.Int).Sub(peak, in)
		}
		if distance.Cmp(uint256.NewInt(100_000)) >= 0 {
			return types.ZeroU256()
		}
		return new(uint256.Int).Sub(uint256.NewInt(100_000), distance)
	}

	optimal, err := FindOptimalInput(context.Background(), inventory, func(ctx context.Context, in types.U256) (types.U256, error) {
		return revenueAt(in), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	distance := new(uint256.Int).Sub(peak, optimal)
	if optimal.Cmp(peak) > 0 {
		distance = new(uint256.Int).Sub(optimal, peak)
	}
	if distance.Cmp(uint256.NewInt(50_000)) > 0 {
		t.Fatalf("optimal %s too far from peak %s", optimal.String(), peak.String())
	}
}

func TestFindOptimalInputAllZeroRevenueReturnsZero(t *testing.T) {
	optimal, err := FindOptimalInput(context.Background(), uint256.NewInt(1_000_000), func(ctx context.Context, in types.U256) (types.U256, error) {
		return types.ZeroU256(), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if optimal.Sign() != 0 {
		t.Fatalf("expected 0 for all-zero revenue, got %s", optimal.String())
	}
}

func TestFindOptimalInputPropagatesSimulatorFault(t *testing.T) {
	_, err := FindOptimalInput(context.Background(), uint256.NewInt(1_000_000), func(ctx context.Context, in types.U256) (types.U256, error) {
		return nil, &simerr.SimulatorFault{Op: "test", Err: errBoom}
	})
	if err == nil {
		t.Fatalf("expected SimulatorFault to propagate")
	}
	var fault *simerr.SimulatorFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected error to wrap *simerr.SimulatorFault, got %v", err)
	}
}

func TestFindOptimalInputTreatsExecutionRevertedAsZeroRevenue(t *testing.T) {
	optimal, err := FindOptimalInput(context.Background(), uint256.NewInt(1_000_000), func(ctx context.Context, in types.U256) (types.U256, error) {
		return nil, &simerr.ExecutionReverted{Stage: simerr.StageFrontrun}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if optimal.Sign() != 0 {
		t.Fatalf("expected 0 when every sample reverts, got %s", optimal.String())
	}
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }
