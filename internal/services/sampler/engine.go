package sampler

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	engcommon "github.com/hexroute/sampler-engine/internal/common"
	"github.com/hexroute/sampler-engine/internal/config"
	"github.com/hexroute/sampler-engine/internal/domain"
	"github.com/hexroute/sampler-engine/internal/metrics"
	"github.com/hexroute/sampler-engine/internal/services/batch"
	"github.com/hexroute/sampler-engine/internal/services/market"
)

// Engine aggregates quotes across liquidity sources. One call expands into
// at most two sequential phases: concurrent pool-cache prefetch for
// snapshot-priced sources, then a single combined batch for every
// operation-backed source. Per-source failures degrade to empty rows; only
// bad arguments and whole-batch transport failures surface as errors.
type Engine struct {
	collector *batch.Collector
	cache     *market.PoolCache
	handlers  map[domain.Source]sourceHandler
}

func NewEngine(transport batch.CallTransport, cache *market.PoolCache, cfg *config.SamplerConfig) *Engine {
	e := &Engine{
		collector: batch.NewCollector(transport),
		cache:     cache,
	}
	e.handlers = map[domain.Source]sourceHandler{
		domain.SourceNative:            &nativeHandler{contract: cfg.SamplerContract},
		domain.SourceUniswap:           &uniswapHandler{contract: cfg.SamplerContract},
		domain.SourceUniswapV2:         &uniswapV2Handler{contract: cfg.SamplerContract, weth: cfg.WethAddress},
		domain.SourceEth2Dai:           &eth2daiHandler{contract: cfg.SamplerContract},
		domain.SourceKyber:             &kyberHandler{contract: cfg.SamplerContract},
		domain.SourceBalancer:          &balancerHandler{cache: cache},
		domain.SourceLiquidityProvider: &liquidityProviderHandler{contract: cfg.SamplerContract, registry: cfg.LPRegistry},
	}
	return e
}

// GetSellQuotes samples every requested source selling takerAmounts of the
// taker token for the maker token. The result holds one row per emitted
// venue — multi-hop and multi-pool sources emit more than one row, so the
// result may be longer than sources.
func (e *Engine) GetSellQuotes(
	ctx context.Context,
	sources []domain.Source,
	makerToken, takerToken common.Address,
	takerAmounts []*big.Int,
	orders []domain.SignedOrder,
) ([]domain.QuoteRow, error) {
	return e.getQuotes(ctx, sources, &quoteRequest{
		makerToken: makerToken,
		takerToken: takerToken,
		amounts:    takerAmounts,
		orders:     orders,
	}, true)
}

// GetBuyQuotes is the buy-side inverse: makerAmounts are desired output
// amounts and each quote's Output is the taker input the source requires.
// Sources without buy support contribute nothing.
func (e *Engine) GetBuyQuotes(
	ctx context.Context,
	sources []domain.Source,
	makerToken, takerToken common.Address,
	makerAmounts []*big.Int,
) ([]domain.QuoteRow, error) {
	return e.getQuotes(ctx, sources, &quoteRequest{
		makerToken: makerToken,
		takerToken: takerToken,
		amounts:    makerAmounts,
	}, false)
}

func (e *Engine) getQuotes(ctx context.Context, sources []domain.Source, req *quoteRequest, sellSide bool) ([]domain.QuoteRow, error) {
	side := "buy"
	if sellSide {
		side = "sell"
	}
	start := time.Now()

	if err := validateRequest(req); err != nil {
		metrics.QuoteRequests.WithLabelValues(side, "invalid").Inc()
		return nil, err
	}

	// Phase 1: fan handlers out. Only snapshot-priced handlers block (on the
	// pool cache), so this is effectively the concurrent cache prefetch;
	// everything else just builds operations.
	rowSets := make([][]*pendingRow, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		h, ok := e.handlers[src]
		if !ok {
			log.Debug().Str("source", src.String()).Msg("[engine] unknown source, skipping")
			continue
		}
		wg.Add(1)
		go func(i int, h sourceHandler) {
			defer wg.Done()
			if sellSide {
				rowSets[i] = h.sell(ctx, req)
			} else {
				rowSets[i] = h.buy(ctx, req)
			}
		}(i, h)
	}
	wg.Wait()

	var rows []*pendingRow
	var ops []batch.Operation
	for _, set := range rowSets {
		for _, r := range set {
			rows = append(rows, r)
			if r.op != nil {
				ops = append(ops, r.op)
			} else if r.orderOp != nil {
				ops = append(ops, r.orderOp)
			}
		}
	}

	// Phase 2: one combined round-trip for every ready operation.
	if err := e.collector.Execute(ctx, ops); err != nil {
		metrics.QuoteRequests.WithLabelValues(side, "error").Inc()
		return nil, err
	}

	out := make([]domain.QuoteRow, 0, len(rows))
	for _, r := range rows {
		if r.orderOp != nil {
			out = append(out, assembleOrderRow(r))
		} else {
			out = append(out, assembleSampledRow(r, req.amounts))
		}
		metrics.QuoteRows.WithLabelValues(r.source.String()).Inc()
	}

	metrics.QuoteRequests.WithLabelValues(side, "ok").Inc()
	metrics.QuoteDuration.WithLabelValues(side).Observe(time.Since(start).Seconds())
	return out, nil
}

func validateRequest(req *quoteRequest) error {
	if req.makerToken == req.takerToken {
		return fmt.Errorf("%w: maker and taker token are identical", engcommon.ErrInvalidArgument)
	}
	if len(req.amounts) == 0 {
		return fmt.Errorf("%w: no fill amounts", engcommon.ErrInvalidArgument)
	}
	for _, a := range req.amounts {
		if a == nil || a.Sign() <= 0 {
			return fmt.Errorf("%w: fill amounts must be positive", engcommon.ErrInvalidArgument)
		}
	}
	return nil
}

// assembleSampledRow aligns a pending row's outputs to the sample sequence.
// A no-data operation (revert or decode failure) degrades to a row of zero
// outputs so the alignment invariant holds and the source simply contributes
// nothing fillable.
func assembleSampledRow(r *pendingRow, amounts []*big.Int) domain.QuoteRow {
	outputs := r.local
	if r.op != nil {
		outputs = r.op.Samples()
		if p, ok := r.op.(*registryOp); ok {
			r.fill.ProviderAddress = p.Provider()
		}
	}
	if len(outputs) != len(amounts) {
		outputs = nil
	}

	row := make(domain.QuoteRow, len(amounts))
	for i, amount := range amounts {
		output := new(big.Int)
		if outputs != nil && outputs[i] != nil {
			output = outputs[i]
		}
		row[i] = domain.Quote{
			Source:   r.source,
			Input:    amount,
			Output:   output,
			FillData: r.fill,
		}
	}
	return row
}

// assembleOrderRow maps fillable taker amounts back onto the submitted
// orders: one quote per order, output scaled by the order's own price.
func assembleOrderRow(r *pendingRow) domain.QuoteRow {
	orders := r.orderOp.orders
	fillables := r.orderOp.FillableAmounts()

	row := make(domain.QuoteRow, len(orders))
	for i, order := range orders {
		input := new(big.Int)
		output := new(big.Int)
		if fillables != nil && fillables[i] != nil && fillables[i].Sign() > 0 &&
			order.TakerAmount != nil && order.TakerAmount.Sign() > 0 && order.MakerAmount != nil {
			input.Set(fillables[i])
			output.Mul(fillables[i], order.MakerAmount)
			output.Div(output, order.TakerAmount)
		}
		fill := r.fill
		fill.OrderIndex = i
		row[i] = domain.Quote{
			Source:   r.source,
			Input:    input,
			Output:   output,
			FillData: fill,
		}
	}
	return row
}
