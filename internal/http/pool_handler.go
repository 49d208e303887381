package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hexroute/sampler-engine/internal/http/httputil"
	"github.com/hexroute/sampler-engine/internal/services/sampler"
)

// PoolHandler exposes the cached pool-snapshot state for inspection.
type PoolHandler struct {
	samplerSvc *sampler.Service
}

func NewPoolHandler(samplerSvc *sampler.Service) *PoolHandler {
	return &PoolHandler{samplerSvc: samplerSvc}
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	admin.GET("", h.listPairs)
}

func (h *PoolHandler) getStats(c *gin.Context) {
	httputil.Success(c, gin.H{
		"cachedPairs": h.samplerSvc.CacheSize(),
	})
}

type PoolInfo struct {
	ID         string `json:"id"`
	BalanceIn  string `json:"balanceIn"`
	BalanceOut string `json:"balanceOut"`
	WeightIn   string `json:"weightIn"`
	WeightOut  string `json:"weightOut"`
	SwapFee    string `json:"swapFee"`
}

type PairInfo struct {
	TokenLo   string     `json:"tokenLo"`
	TokenHi   string     `json:"tokenHi"`
	ExpiresAt string     `json:"expiresAt"`
	Pools     []PoolInfo `json:"pools"`
}

func (h *PoolHandler) listPairs(c *gin.Context) {
	pairs := h.samplerSvc.CachedPairs()
	out := make([]PairInfo, 0, len(pairs))
	for _, pp := range pairs {
		info := PairInfo{
			TokenLo:   pp.TokenLo.Hex(),
			TokenHi:   pp.TokenHi.Hex(),
			ExpiresAt: pp.ExpiresAt.UTC().Format("2006-01-02T15:04:05.000Z"),
			Pools:     make([]PoolInfo, len(pp.Pools)),
		}
		for i, p := range pp.Pools {
			info.Pools[i] = PoolInfo{
				ID:         p.ID.Hex(),
				BalanceIn:  p.BalanceIn.String(),
				BalanceOut: p.BalanceOut.String(),
				WeightIn:   p.WeightIn.String(),
				WeightOut:  p.WeightOut.String(),
				SwapFee:    p.SwapFee.String(),
			}
		}
		out = append(out, info)
	}
	httputil.Success(c, out)
}
