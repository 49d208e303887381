package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Quote is one sampled point on a source's price curve: trading Input of the
// taker token yields Output of the maker token (sell side), or Input of the
// maker token costs Output of the taker token (buy side).
// FillData carries whatever the execution layer later needs to route the fill;
// the sampler never inspects it after construction.
type Quote struct {
	Source   Source
	Input    *big.Int
	Output   *big.Int
	FillData FillData
}

// QuoteRow is one source's quotes aligned to a sample-amount sequence:
// row[i] corresponds to samples[i]. Order-book rows are the one exception,
// aligned to the submitted order list instead.
type QuoteRow []Quote

// FillData is the tagged source-specific fill metadata. The fields beyond
// Kind are populated per source; consumers switch on Kind.
type FillData struct {
	Kind Source

	// TokenPath is the full hop path for path-routed sources (UniswapV2).
	TokenPath []common.Address
	// PoolAddress identifies the pool for snapshot-priced sources (Balancer).
	PoolAddress common.Address
	// ProviderAddress is the resolved venue for registry sources.
	ProviderAddress common.Address
	// OrderIndex is the position in the submitted order list for Native rows.
	OrderIndex int
}
