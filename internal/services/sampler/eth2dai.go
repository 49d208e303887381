package sampler

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// eth2daiHandler samples the Eth2Dai (Oasis) order book contract, which
// exposes an analytic single-call quote for both sides.
type eth2daiHandler struct {
	contract common.Address
}

func (h *eth2daiHandler) kind() domain.Source { return domain.SourceEth2Dai }

func (h *eth2daiHandler) sell(_ context.Context, req *quoteRequest) []*pendingRow {
	return []*pendingRow{{
		source: domain.SourceEth2Dai,
		fill:   domain.FillData{Kind: domain.SourceEth2Dai},
		op:     newSampleOp(h.contract, "sampleSellsFromEth2Dai", req.takerToken, req.makerToken, req.amounts),
	}}
}

func (h *eth2daiHandler) buy(_ context.Context, req *quoteRequest) []*pendingRow {
	return []*pendingRow{{
		source: domain.SourceEth2Dai,
		fill:   domain.FillData{Kind: domain.SourceEth2Dai},
		op:     newSampleOp(h.contract, "sampleBuysFromEth2Dai", req.takerToken, req.makerToken, req.amounts),
	}}
}
