package http

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	engcommon "github.com/hexroute/sampler-engine/internal/common"
	"github.com/hexroute/sampler-engine/internal/domain"
	"github.com/hexroute/sampler-engine/internal/http/httputil"
	"github.com/hexroute/sampler-engine/internal/services/batch"
	"github.com/hexroute/sampler-engine/internal/services/sampler"
)

const quoteTimeout = 15 * time.Second

type QuoteHandler struct {
	samplerSvc *sampler.Service
}

func NewQuoteHandler(samplerSvc *sampler.Service) *QuoteHandler {
	return &QuoteHandler{samplerSvc: samplerSvc}
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

type QuoteRequest struct {
	// SellToken is the taker asset, BuyToken the maker asset.
	SellToken string `form:"sellToken" binding:"required"`
	BuyToken  string `form:"buyToken" binding:"required"`

	// Amount in smallest token units. Sell side: total taker amount to sell.
	// Buy side: total maker amount to acquire.
	Amount string `form:"amount" binding:"required"`

	// Side is "sell" or "buy". Default sell.
	Side string `form:"side"`

	// Samples overrides the configured sample count.
	Samples int `form:"samples"`

	// Sources is a comma-separated source filter. Empty means all sources.
	Sources string `form:"sources"`
}

type QuoteSample struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type QuoteRowResponse struct {
	Source          string        `json:"source"`
	PoolAddress     string        `json:"poolAddress,omitempty"`
	ProviderAddress string        `json:"providerAddress,omitempty"`
	TokenPath       []string      `json:"tokenPath,omitempty"`
	Samples         []QuoteSample `json:"samples"`
}

type QuoteResponse struct {
	SellToken string             `json:"sellToken"`
	BuyToken  string             `json:"buyToken"`
	Side      string             `json:"side"`
	Rows      []QuoteRowResponse `json:"rows"`
}

var defaultSources = []domain.Source{
	domain.SourceUniswap,
	domain.SourceUniswapV2,
	domain.SourceEth2Dai,
	domain.SourceKyber,
	domain.SourceBalancer,
	domain.SourceLiquidityProvider,
}

func (h *QuoteHandler) getQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	if !common.IsHexAddress(req.SellToken) || !common.IsHexAddress(req.BuyToken) {
		httputil.BadRequest(c, "sellToken and buyToken must be hex addresses")
		return
	}
	sellToken := common.HexToAddress(req.SellToken)
	buyToken := common.HexToAddress(req.BuyToken)

	total, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || total.Sign() <= 0 {
		httputil.BadRequest(c, "amount must be a positive decimal integer")
		return
	}

	side := req.Side
	if side == "" {
		side = "sell"
	}
	if side != "sell" && side != "buy" {
		httputil.BadRequest(c, "side must be sell or buy")
		return
	}

	count := req.Samples
	if count <= 0 {
		count = h.samplerSvc.DefaultSamples()
	}

	sources, err := parseSources(req.Sources)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	amounts, err := sampler.SampleAmounts(total, count)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	// Bound the whole aggregation call; slow sources are abandoned, not
	// individually cancelled.
	ctx, cancel := context.WithTimeout(c.Request.Context(), quoteTimeout)
	defer cancel()

	var rows []domain.QuoteRow
	if side == "sell" {
		rows, err = h.samplerSvc.GetSellQuotes(ctx, sources, buyToken, sellToken, amounts, nil)
	} else {
		rows, err = h.samplerSvc.GetBuyQuotes(ctx, sources, buyToken, sellToken, amounts)
	}
	if err != nil {
		switch {
		case errors.Is(err, engcommon.ErrInvalidArgument):
			httputil.BadRequest(c, err.Error())
		case errors.Is(err, batch.ErrBatchFetchFailed):
			httputil.BadGateway(c, err.Error())
		default:
			httputil.InternalError(c, err.Error())
		}
		return
	}

	httputil.Success(c, &QuoteResponse{
		SellToken: sellToken.Hex(),
		BuyToken:  buyToken.Hex(),
		Side:      side,
		Rows:      toRowResponses(rows),
	})
}

func parseSources(raw string) ([]domain.Source, error) {
	if raw == "" {
		return defaultSources, nil
	}
	parts := strings.Split(raw, ",")
	sources := make([]domain.Source, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		src, ok := domain.ParseSource(name)
		if !ok {
			return nil, errors.New("unknown source: " + name)
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return defaultSources, nil
	}
	return sources, nil
}

func toRowResponses(rows []domain.QuoteRow) []QuoteRowResponse {
	out := make([]QuoteRowResponse, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		fill := row[0].FillData
		resp := QuoteRowResponse{
			Source:  row[0].Source.String(),
			Samples: make([]QuoteSample, len(row)),
		}
		if (fill.PoolAddress != common.Address{}) {
			resp.PoolAddress = fill.PoolAddress.Hex()
		}
		if (fill.ProviderAddress != common.Address{}) {
			resp.ProviderAddress = fill.ProviderAddress.Hex()
		}
		for _, t := range fill.TokenPath {
			resp.TokenPath = append(resp.TokenPath, t.Hex())
		}
		for i, q := range row {
			resp.Samples[i] = QuoteSample{
				Input:  q.Input.String(),
				Output: q.Output.String(),
			}
		}
		out = append(out, resp)
	}
	return out
}
