package sampler

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// nativeHandler queries on-chain fillable state for the caller's signed
// orders. Its operation shape differs from the curve-sampled sources: one
// fillable taker amount per order, aligned to the order list rather than
// the sample sequence. Buy-side quoting is not supported.
type nativeHandler struct {
	contract common.Address
}

func (h *nativeHandler) kind() domain.Source { return domain.SourceNative }

func (h *nativeHandler) sell(_ context.Context, req *quoteRequest) []*pendingRow {
	if len(req.orders) == 0 {
		return nil
	}
	return []*pendingRow{{
		source:  domain.SourceNative,
		fill:    domain.FillData{Kind: domain.SourceNative},
		orderOp: newFillableOp(h.contract, req.orders),
	}}
}

func (h *nativeHandler) buy(_ context.Context, _ *quoteRequest) []*pendingRow {
	return nil
}
