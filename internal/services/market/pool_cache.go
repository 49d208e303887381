// Package market maintains the shared, process-scoped view of external
// liquidity state the sampler prices against locally.
package market

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/hexroute/sampler-engine/internal/domain"
	"github.com/hexroute/sampler-engine/internal/metrics"
)

// PoolFetcher is the external pool-data collaborator. Fetches are directional:
// balances and weights in the returned snapshots are oriented tokenIn→tokenOut.
type PoolFetcher interface {
	FetchPools(ctx context.Context, tokenIn, tokenOut common.Address) ([]domain.BalancerPool, error)
}

type poolEntry struct {
	pools     []domain.BalancerPool // canonical orientation Lo→Hi
	expiresAt time.Time
	inflight  bool
	ready     chan struct{} // closed once the fetch settles
}

// PoolCache caches weighted-pool snapshots per unordered token pair with TTL
// freshness and an at-most-one-fetch-in-flight guarantee per pair. Different
// pairs never contend on a fetch, only on the brief map access.
type PoolCache struct {
	mu      sync.Mutex
	entries map[domain.PairKey]*poolEntry

	fetcher      PoolFetcher
	ttl          time.Duration
	failureGrace time.Duration
}

func NewPoolCache(fetcher PoolFetcher, ttl, failureGrace time.Duration) *PoolCache {
	return &PoolCache{
		entries:      make(map[domain.PairKey]*poolEntry),
		fetcher:      fetcher,
		ttl:          ttl,
		failureGrace: failureGrace,
	}
}

// GetPoolsForPair returns the cached snapshots for (tokenIn, tokenOut),
// oriented for that direction, fetching at most once per pair regardless of
// concurrent callers. A failed fetch is served as an empty result for a
// short grace period; absence of pools is never an error.
func (c *PoolCache) GetPoolsForPair(ctx context.Context, tokenIn, tokenOut common.Address) []domain.BalancerPool {
	key := domain.NewPairKey(tokenIn, tokenOut)

	for {
		c.mu.Lock()
		entry := c.entries[key]
		if entry != nil && entry.inflight {
			ready := entry.ready
			c.mu.Unlock()
			metrics.PoolCacheInflightWaits.Inc()
			select {
			case <-ready:
				continue
			case <-ctx.Done():
				return nil
			}
		}
		if entry != nil && time.Now().Before(entry.expiresAt) {
			pools := entry.pools
			c.mu.Unlock()
			metrics.PoolCacheHits.Inc()
			return orientPools(pools, tokenIn == key.Lo)
		}

		// Miss or stale: this caller becomes the single fetcher.
		entry = &poolEntry{inflight: true, ready: make(chan struct{})}
		c.entries[key] = entry
		c.mu.Unlock()
		metrics.PoolCacheMisses.Inc()

		pools, err := c.fetcher.FetchPools(ctx, key.Lo, key.Hi)

		c.mu.Lock()
		if err != nil {
			metrics.PoolFetchFailures.Inc()
			log.Warn().Err(err).
				Str("tokenLo", key.Lo.Hex()).
				Str("tokenHi", key.Hi.Hex()).
				Msg("[poolCache] pool fetch failed, caching empty for grace period")
			entry.pools = nil
			entry.expiresAt = time.Now().Add(c.failureGrace)
		} else {
			entry.pools = pools
			entry.expiresAt = time.Now().Add(c.ttl)
		}
		entry.inflight = false
		close(entry.ready)
		metrics.PoolCacheSize.Set(float64(len(c.entries)))
		c.mu.Unlock()

		return orientPools(entry.pools, tokenIn == key.Lo)
	}
}

// orientPools returns snapshots oriented for the caller's trade direction.
// Snapshots are immutable, so the flipped view is always a fresh value.
func orientPools(pools []domain.BalancerPool, canonical bool) []domain.BalancerPool {
	if len(pools) == 0 {
		return nil
	}
	out := make([]domain.BalancerPool, len(pools))
	for i, p := range pools {
		if canonical {
			out[i] = p
			continue
		}
		out[i] = domain.BalancerPool{
			ID:         p.ID,
			BalanceIn:  p.BalanceOut,
			BalanceOut: p.BalanceIn,
			WeightIn:   p.WeightOut,
			WeightOut:  p.WeightIn,
			SwapFee:    p.SwapFee,
		}
	}
	return out
}

// PairPools is one persisted cache entry, in canonical Lo→Hi orientation.
type PairPools struct {
	TokenLo   common.Address
	TokenHi   common.Address
	Pools     []domain.BalancerPool
	ExpiresAt time.Time
}

// Snapshot copies out every settled entry for persistence.
func (c *PoolCache) Snapshot() []PairPools {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]PairPools, 0, len(c.entries))
	for key, entry := range c.entries {
		if entry.inflight || len(entry.pools) == 0 {
			continue
		}
		out = append(out, PairPools{
			TokenLo:   key.Lo,
			TokenHi:   key.Hi,
			Pools:     entry.pools,
			ExpiresAt: entry.expiresAt,
		})
	}
	return out
}

// WarmStart seeds the cache from persisted entries. Entries already past
// their expiry are skipped; live lookups will refetch them on demand.
func (c *PoolCache) WarmStart(pairs []PairPools) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	loaded := 0
	now := time.Now()
	for _, pp := range pairs {
		if !now.Before(pp.ExpiresAt) || len(pp.Pools) == 0 {
			continue
		}
		key := domain.NewPairKey(pp.TokenLo, pp.TokenHi)
		c.entries[key] = &poolEntry{
			pools:     pp.Pools,
			expiresAt: pp.ExpiresAt,
			ready:     closedChan(),
		}
		loaded++
	}
	metrics.PoolCacheSize.Set(float64(len(c.entries)))
	return loaded
}

// Size returns the number of pair entries currently held.
func (c *PoolCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
