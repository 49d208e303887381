// Package sampler implements the quote sampling and aggregation engine: it
// expands a requested fill into a deterministic sample sequence, prices every
// requested liquidity source against it through one batched round-trip (or
// locally from cached pool snapshots), and normalizes the results into
// comparable quote rows.
package sampler

import (
	"fmt"
	"math/big"

	"github.com/hexroute/sampler-engine/internal/common"
)

var bigOne = big.NewInt(1)

// SampleAmounts produces a strictly ascending sequence of count fill sizes
// ending exactly at total. Spacing follows geometric partial sums (base 2),
// so coverage is densest at the low end where marginal price moves fastest.
// Pure and deterministic; exact integer arithmetic throughout.
func SampleAmounts(total *big.Int, count int) ([]*big.Int, error) {
	if total == nil || total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: total must be positive", common.ErrInvalidArgument)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive", common.ErrInvalidArgument)
	}
	if count == 1 {
		return []*big.Int{new(big.Int).Set(total)}, nil
	}

	// amounts[i] = total * (2^(i+1) - 1) / (2^count - 1), truncated; the last
	// element is pinned to total exactly. Truncation can collapse neighbors
	// for tiny totals, so ascent is enforced by bumping, and a total too
	// small to admit count distinct positive values is rejected.
	den := new(big.Int).Lsh(bigOne, uint(count))
	den.Sub(den, bigOne)

	amounts := make([]*big.Int, count)
	prev := new(big.Int)
	for i := 0; i < count; i++ {
		if i == count-1 {
			if total.Cmp(prev) <= 0 {
				return nil, fmt.Errorf("%w: total %s too small for %d ascending samples", common.ErrInvalidArgument, total, count)
			}
			amounts[i] = new(big.Int).Set(total)
			break
		}

		num := new(big.Int).Lsh(bigOne, uint(i+1))
		num.Sub(num, bigOne)
		a := new(big.Int).Mul(total, num)
		a.Div(a, den)
		if a.Cmp(prev) <= 0 {
			a.Add(prev, bigOne)
		}

		// Every later sample still needs room to ascend to total.
		headroom := new(big.Int).Add(a, big.NewInt(int64(count-1-i)))
		if headroom.Cmp(total) > 0 {
			return nil, fmt.Errorf("%w: total %s too small for %d ascending samples", common.ErrInvalidArgument, total, count)
		}

		amounts[i] = a
		prev = a
	}
	return amounts, nil
}
