package sampler

import (
	"context"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/hexroute/sampler-engine/internal/domain"
	"github.com/hexroute/sampler-engine/internal/services/curve"
	"github.com/hexroute/sampler-engine/internal/services/market"
)

// balancerHandler prices weighted pools locally: snapshots come from the
// pool cache (a prerequisite fetch, not a batch operation) and the curve
// math runs in-process. One row per pool snapshot — each pool is a separate,
// independently fillable venue. Zero pools means zero rows, not an error.
type balancerHandler struct {
	cache *market.PoolCache
}

func (h *balancerHandler) kind() domain.Source { return domain.SourceBalancer }

func (h *balancerHandler) sell(ctx context.Context, req *quoteRequest) []*pendingRow {
	pools := h.cache.GetPoolsForPair(ctx, req.takerToken, req.makerToken)
	return h.rows(pools, req.amounts, curve.WeightedOut)
}

func (h *balancerHandler) buy(ctx context.Context, req *quoteRequest) []*pendingRow {
	// Buy-side direction is still taker→maker; amounts are maker-denominated.
	pools := h.cache.GetPoolsForPair(ctx, req.takerToken, req.makerToken)
	return h.rows(pools, req.amounts, curve.WeightedIn)
}

func (h *balancerHandler) rows(
	pools []domain.BalancerPool,
	amounts []*big.Int,
	price func(*domain.BalancerPool, *big.Int) (*big.Int, error),
) []*pendingRow {
	rows := make([]*pendingRow, 0, len(pools))
	for i := range pools {
		pool := pools[i]
		outputs := make([]*big.Int, len(amounts))
		for j, amount := range amounts {
			out, err := price(&pool, amount)
			if err != nil {
				// Amounts past the pool's ratio bounds are expected at the
				// top of the sample curve; a zero output marks the sample
				// unfillable and the row stays aligned.
				log.Debug().Err(err).Str("pool", pool.ID.Hex()).Msg("[balancer] sample not fillable")
				out = new(big.Int)
			}
			outputs[j] = out
		}
		rows = append(rows, &pendingRow{
			source: domain.SourceBalancer,
			fill:   domain.FillData{Kind: domain.SourceBalancer, PoolAddress: pool.ID},
			local:  outputs,
		})
	}
	return rows
}
