package sampler

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// uniswapHandler samples the V1-style exchange, where every token trades
// against ETH through its own exchange contract; routing happens on-chain
// inside the sampler method, so one operation yields the full row.
type uniswapHandler struct {
	contract common.Address
}

func (h *uniswapHandler) kind() domain.Source { return domain.SourceUniswap }

func (h *uniswapHandler) sell(_ context.Context, req *quoteRequest) []*pendingRow {
	return []*pendingRow{{
		source: domain.SourceUniswap,
		fill:   domain.FillData{Kind: domain.SourceUniswap},
		op:     newSampleOp(h.contract, "sampleSellsFromUniswap", req.takerToken, req.makerToken, req.amounts),
	}}
}

func (h *uniswapHandler) buy(_ context.Context, req *quoteRequest) []*pendingRow {
	return []*pendingRow{{
		source: domain.SourceUniswap,
		fill:   domain.FillData{Kind: domain.SourceUniswap},
		op:     newSampleOp(h.contract, "sampleBuysFromUniswap", req.takerToken, req.makerToken, req.amounts),
	}}
}
