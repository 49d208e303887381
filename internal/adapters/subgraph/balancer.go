package subgraph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/hexroute/sampler-engine/internal/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	maxPoolsPerPair = 64
)

// Fetcher loads weighted pool snapshots for a token pair from the Balancer
// subgraph. Snapshots are returned oriented token-in to token-out; the
// caller owns caching and re-orientation.
type Fetcher struct {
	url    string
	client *http.Client
}

func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

const poolsQuery = `query($tokenIn: String!, $tokenOut: String!, $limit: Int!) {
  pools(first: $limit, where: {publicSwap: true, tokensList_contains: [$tokenIn, $tokenOut]}) {
    id
    swapFee
    tokens { address balance denormWeight decimals }
  }
}`

type graphRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type rawToken struct {
	Address      string `json:"address"`
	Balance      string `json:"balance"`
	DenormWeight string `json:"denormWeight"`
	Decimals     int    `json:"decimals"`
}

type rawPool struct {
	ID      string     `json:"id"`
	SwapFee string     `json:"swapFee"`
	Tokens  []rawToken `json:"tokens"`
}

type graphResponse struct {
	Data struct {
		Pools []rawPool `json:"pools"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (f *Fetcher) FetchPools(ctx context.Context, tokenIn, tokenOut common.Address) ([]domain.BalancerPool, error) {
	body, err := sonic.Marshal(&graphRequest{
		Query: poolsQuery,
		Variables: map[string]interface{}{
			"tokenIn":  lowerHex(tokenIn),
			"tokenOut": lowerHex(tokenOut),
			"limit":    maxPoolsPerPair,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subgraph query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build subgraph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subgraph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subgraph returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read subgraph response: %w", err)
	}

	var parsed graphResponse
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode subgraph response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("subgraph error: %s", parsed.Errors[0].Message)
	}

	pools := make([]domain.BalancerPool, 0, len(parsed.Data.Pools))
	for i := range parsed.Data.Pools {
		pool, ok := buildPool(&parsed.Data.Pools[i], tokenIn, tokenOut)
		if !ok {
			continue
		}
		pools = append(pools, pool)
	}

	log.Debug().
		Str("tokenIn", tokenIn.Hex()).
		Str("tokenOut", tokenOut.Hex()).
		Int("pools", len(pools)).
		Msg("[balancerSubgraph] fetched pools")
	return pools, nil
}

func buildPool(raw *rawPool, tokenIn, tokenOut common.Address) (domain.BalancerPool, bool) {
	if !common.IsHexAddress(raw.ID) {
		return domain.BalancerPool{}, false
	}

	pool := domain.BalancerPool{ID: common.HexToAddress(raw.ID)}

	fee, ok := decimalToWei(raw.SwapFee, 18)
	if !ok {
		return domain.BalancerPool{}, false
	}
	pool.SwapFee = fee

	var haveIn, haveOut bool
	for _, t := range raw.Tokens {
		if !common.IsHexAddress(t.Address) {
			continue
		}
		addr := common.HexToAddress(t.Address)
		switch addr {
		case tokenIn:
			pool.BalanceIn, ok = decimalToWei(t.Balance, t.Decimals)
			if !ok {
				return domain.BalancerPool{}, false
			}
			pool.WeightIn, ok = decimalToWei(t.DenormWeight, 18)
			if !ok {
				return domain.BalancerPool{}, false
			}
			haveIn = true
		case tokenOut:
			pool.BalanceOut, ok = decimalToWei(t.Balance, t.Decimals)
			if !ok {
				return domain.BalancerPool{}, false
			}
			pool.WeightOut, ok = decimalToWei(t.DenormWeight, 18)
			if !ok {
				return domain.BalancerPool{}, false
			}
			haveOut = true
		}
	}
	if !haveIn || !haveOut {
		return domain.BalancerPool{}, false
	}
	if pool.BalanceIn.Sign() == 0 || pool.BalanceOut.Sign() == 0 ||
		pool.WeightIn.Sign() == 0 || pool.WeightOut.Sign() == 0 {
		return domain.BalancerPool{}, false
	}
	return pool, true
}

// decimalToWei parses the subgraph's decimal-string numbers into integer
// base units. Excess fractional digits are truncated.
func decimalToWei(s string, decimals int) (*big.Int, bool) {
	if s == "" || decimals < 0 {
		return nil, false
	}
	whole, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			whole, frac = s[:i], s[i+1:]
			break
		}
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	for len(frac) < decimals {
		frac += "0"
	}
	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}

func lowerHex(a common.Address) string {
	const hextable = "0123456789abcdef"
	buf := make([]byte, 2+2*len(a))
	buf[0], buf[1] = '0', 'x'
	for i, b := range a {
		buf[2+i*2] = hextable[b>>4]
		buf[3+i*2] = hextable[b&0x0f]
	}
	return string(buf)
}
