package sampler

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// kyberHandler samples the Kyber network proxy. The proxy only quotes
// expected output for a given input, so the source is sell-only.
type kyberHandler struct {
	contract common.Address
}

func (h *kyberHandler) kind() domain.Source { return domain.SourceKyber }

func (h *kyberHandler) sell(_ context.Context, req *quoteRequest) []*pendingRow {
	return []*pendingRow{{
		source: domain.SourceKyber,
		fill:   domain.FillData{Kind: domain.SourceKyber},
		op:     newSampleOp(h.contract, "sampleSellsFromKyberNetwork", req.takerToken, req.makerToken, req.amounts),
	}}
}

func (h *kyberHandler) buy(_ context.Context, _ *quoteRequest) []*pendingRow {
	return nil
}
