package sampler

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// liquidityProviderHandler samples whichever provider the configured
// registry resolves for the pair. With no registry configured the source
// contributes nothing. Sell-only: the registry interface quotes output for
// input exclusively.
type liquidityProviderHandler struct {
	contract common.Address
	registry common.Address
}

func (h *liquidityProviderHandler) kind() domain.Source { return domain.SourceLiquidityProvider }

func (h *liquidityProviderHandler) sell(_ context.Context, req *quoteRequest) []*pendingRow {
	if (h.registry == common.Address{}) {
		return nil
	}
	return []*pendingRow{{
		source: domain.SourceLiquidityProvider,
		fill:   domain.FillData{Kind: domain.SourceLiquidityProvider},
		op:     newRegistryOp(h.contract, h.registry, req.takerToken, req.makerToken, req.amounts),
	}}
}

func (h *liquidityProviderHandler) buy(_ context.Context, _ *quoteRequest) []*pendingRow {
	return nil
}
