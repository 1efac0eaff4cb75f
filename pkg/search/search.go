// Package search implements the optimal-input searcher: a parallel,
// multi-sample generalization of the golden-section method that narrows a
// bounded input range toward the frontrun size maximizing sandwich revenue.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/sandwichlab/evaluator/pkg/simerr"
	"github.com/sandwichlab/evaluator/pkg/types"
)

// N is the number of interior samples per iteration; N+1 = 16 evaluations
// run concurrently. Implementers may make this configurable — it is a
// heuristic, not a correctness requirement.
const N = 15

// toleranceBaseDenominator is the fixed-point base the relative tolerance
// is expressed against.
const toleranceBaseDenominator = 1_000_000

// maxZeroRevenueIterations bounds how many consecutive all-zero iterations
// the searcher tolerates before concluding there is no exploitable
// opportunity and returning zero.
const maxZeroRevenueIterations = 10

// RevenueFunc evaluates the revenue achievable at a given frontrun input.
// Implementations wrap the search-path simulator (pkg/simulate); each
// invocation must be safe to run concurrently with any other, sharing only
// an immutable backend.
type RevenueFunc func(ctx context.Context, frontrunIn types.U256) (types.U256, error)

// FindOptimalInput searches frontrun_in in [0, inventory] for the value
// maximizing RevenueFunc's output via bounded interval refinement. Returns
// the best input found; a zero
// result is a first-class "no profitable opportunity" outcome, not an
// error.
func FindOptimalInput(ctx context.Context, inventory types.U256, evaluate RevenueFunc) (types.U256, error) {
	if inventory.Sign() == 0 {
		return types.ZeroU256(), nil
	}

	lower := types.ZeroU256()
	upper := new(uint256.Int).Set(inventory)

	absTol := midpoint(lower, upper)
	absTol = new(uint256.Int).Div(absTol, uint256.NewInt(toleranceBaseDenominator))
	if absTol.Sign() == 0 {
		absTol = uint256.NewInt(1)
	}

	best := types.ZeroU256()
	bestRevenue := types.ZeroU256()
	zeroStreak := 0

	for {
		if upper.Cmp(lower) < 0 {
			return best, nil
		}
		width := new(uint256.Int).Sub(upper, lower)
		if width.Cmp(absTol) < 0 {
			return best, nil
		}

		points := partition(lower, upper, N)

		revenues, err := evaluateAll(ctx, points, evaluate)
		if err != nil {
			return nil, fmt.Errorf("evaluate search points: %w", err)
		}

		k, allZero := argmaxTiesLowest(revenues)

		if allZero {
			zeroStreak++
			if zeroStreak >= maxZeroRevenueIterations {
				return types.ZeroU256(), nil
			}
			shrinkIdx := N / 3
			shrunk, underflowed := subOne(points[shrinkIdx])
			if underflowed {
				return best, nil
			}
			upper = shrunk
			continue
		}
		zeroStreak = 0

		if revenues[k].Cmp(bestRevenue) > 0 {
			bestRevenue = revenues[k]
			best = points[k]
		}

		switch {
		case k == N:
			next, underflowed := addOne(points[k-1])
			if underflowed {
				return best, nil
			}
			lower = next
		case k == 0:
			next, underflowed := subOne(points[k+1])
			if underflowed {
				return best, nil
			}
			upper = next
		default:
			lo, loUnderflow := addOne(points[k-1])
			hi, hiUnderflow := subOne(points[k+1])
			if loUnderflow || hiUnderflow {
				return best, nil
			}
			lower, upper = lo, hi
		}
	}
}

// evaluateAll runs evaluate concurrently over every point, awaiting all of
// them. A frontrun/backrun revert or halt at one candidate point is a
// routine outcome of sampling near the edges of the search range (slippage,
// insufficient liquidity) and is folded into a zero-revenue sample rather
// than aborting the whole iteration, mirroring the reference searcher's
// unwrap_or_default. Only a SimulatorFault — a backend or EVM-internal
// error — is a genuine fault and propagates.
func evaluateAll(ctx context.Context, points []types.U256, evaluate RevenueFunc) ([]types.U256, error) {
	revenues := make([]types.U256, len(points))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(len(points))

	for i, p := range points {
		i, p := i, p
		group.Go(func() error {
			revenue, err := evaluate(gctx, p)
			if err != nil {
				var fault *simerr.SimulatorFault
				if errors.As(err, &fault) {
					return fmt.Errorf("sample %d (input %s): %w", i, p.String(), err)
				}
				revenues[i] = types.ZeroU256()
				return nil
			}
			revenues[i] = revenue
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return revenues, nil
}

// partition splits [lower, upper] into n+1 equally spaced points
// p_0 = lower, ..., p_n = upper.
func partition(lower, upper types.U256, n int) []types.U256 {
	points := make([]types.U256, n+1)
	width := new(uint256.Int).Sub(upper, lower)
	step := new(uint256.Int).Div(width, uint256.NewInt(uint64(n)))
	for i := 0; i <= n; i++ {
		offset := new(uint256.Int).Mul(step, uint256.NewInt(uint64(i)))
		points[i] = new(uint256.Int).Add(lower, offset)
	}
	points[n] = new(uint256.Int).Set(upper)
	return points
}

func midpoint(a, b types.U256) types.U256 {
	sum := new(uint256.Int).Add(a, b)
	return new(uint256.Int).Rsh(sum, 1)
}

func argmaxTiesLowest(revenues []types.U256) (idx int, allZero bool) {
	allZero = true
	best := 0
	for i, r := range revenues {
		if r.Sign() != 0 {
			allZero = false
		}
		if r.Cmp(revenues[best]) > 0 {
			best = i
		}
	}
	return best, allZero
}

func subOne(x types.U256) (types.U256, bool) {
	if x.Sign() == 0 {
		return nil, true
	}
	return new(uint256.Int).Sub(x, uint256.NewInt(1)), false
}

func addOne(x types.U256) (types.U256, bool) {
	sum := new(uint256.Int)
	overflow := sum.AddOverflow(x, uint256.NewInt(1))
	if overflow {
		return nil, true
	}
	return sum, false
}
