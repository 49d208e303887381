package sampler

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// uniswapV2Handler samples pair pools along an explicit token path. For a
// pair where neither leg is WETH it also emits a second, WETH-bridged row;
// the direct row is kept, the routed one is additional, and the fill data
// records the exact path for execution.
type uniswapV2Handler struct {
	contract common.Address
	weth     common.Address
}

func (h *uniswapV2Handler) kind() domain.Source { return domain.SourceUniswapV2 }

func (h *uniswapV2Handler) sell(_ context.Context, req *quoteRequest) []*pendingRow {
	return h.rows("sampleSellsFromUniswapV2", req)
}

func (h *uniswapV2Handler) buy(_ context.Context, req *quoteRequest) []*pendingRow {
	return h.rows("sampleBuysFromUniswapV2", req)
}

func (h *uniswapV2Handler) rows(method string, req *quoteRequest) []*pendingRow {
	direct := []common.Address{req.takerToken, req.makerToken}
	rows := []*pendingRow{h.pathRow(method, direct, req)}
	if req.takerToken != h.weth && req.makerToken != h.weth {
		bridged := []common.Address{req.takerToken, h.weth, req.makerToken}
		rows = append(rows, h.pathRow(method, bridged, req))
	}
	return rows
}

func (h *uniswapV2Handler) pathRow(method string, path []common.Address, req *quoteRequest) *pendingRow {
	return &pendingRow{
		source: domain.SourceUniswapV2,
		fill:   domain.FillData{Kind: domain.SourceUniswapV2, TokenPath: path},
		op:     newSampleOp(h.contract, method, path, req.amounts),
	}
}
