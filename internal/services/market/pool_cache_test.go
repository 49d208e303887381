package market

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

type countingFetcher struct {
	mu      sync.Mutex
	fetches int32
	delay   time.Duration
	err     error
	pools   []domain.BalancerPool

	lastIn  common.Address
	lastOut common.Address
}

func (f *countingFetcher) FetchPools(_ context.Context, tokenIn, tokenOut common.Address) ([]domain.BalancerPool, error) {
	atomic.AddInt32(&f.fetches, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.lastIn, f.lastOut = tokenIn, tokenOut
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.pools, nil
}

var (
	tokenA = common.HexToAddress("0x000000000000000000000000000000000000000a")
	tokenB = common.HexToAddress("0x000000000000000000000000000000000000000b")
)

func testPool(balanceIn, balanceOut int64) domain.BalancerPool {
	return domain.BalancerPool{
		ID:         common.HexToAddress("0x00000000000000000000000000000000000000cc"),
		BalanceIn:  big.NewInt(balanceIn),
		BalanceOut: big.NewInt(balanceOut),
		WeightIn:   big.NewInt(1),
		WeightOut:  big.NewInt(2),
		SwapFee:    big.NewInt(3),
	}
}

func TestPoolCacheFetchesOncePerPair(t *testing.T) {
	fetcher := &countingFetcher{pools: []domain.BalancerPool{testPool(100, 200)}}
	cache := NewPoolCache(fetcher, time.Minute, time.Second)

	for i := 0; i < 5; i++ {
		pools := cache.GetPoolsForPair(context.Background(), tokenA, tokenB)
		if len(pools) != 1 {
			t.Fatalf("iteration %d: expected 1 pool, got %d", i, len(pools))
		}
	}
	// The reversed direction is the same pair.
	cache.GetPoolsForPair(context.Background(), tokenB, tokenA)

	if n := atomic.LoadInt32(&fetcher.fetches); n != 1 {
		t.Errorf("expected exactly 1 fetch, got %d", n)
	}
	if cache.Size() != 1 {
		t.Errorf("expected 1 cached pair, got %d", cache.Size())
	}
}

func TestPoolCacheConcurrentDedup(t *testing.T) {
	fetcher := &countingFetcher{
		pools: []domain.BalancerPool{testPool(100, 200)},
		delay: 20 * time.Millisecond,
	}
	cache := NewPoolCache(fetcher, time.Minute, time.Second)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Mix both directions to hit the same unordered key.
			in, out := tokenA, tokenB
			if i%2 == 1 {
				in, out = tokenB, tokenA
			}
			results[i] = len(cache.GetPoolsForPair(context.Background(), in, out))
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&fetcher.fetches); n != 1 {
		t.Errorf("expected exactly 1 fetch under concurrency, got %d", n)
	}
	for i, n := range results {
		if n != 1 {
			t.Errorf("caller %d saw %d pools, want 1", i, n)
		}
	}
}

func TestPoolCacheOrientation(t *testing.T) {
	fetcher := &countingFetcher{pools: []domain.BalancerPool{testPool(100, 200)}}
	cache := NewPoolCache(fetcher, time.Minute, time.Second)

	// First call fetches canonically Lo→Hi (A < B lexically).
	forward := cache.GetPoolsForPair(context.Background(), tokenA, tokenB)
	reverse := cache.GetPoolsForPair(context.Background(), tokenB, tokenA)

	fetcher.mu.Lock()
	if fetcher.lastIn != tokenA || fetcher.lastOut != tokenB {
		t.Errorf("fetch direction %s→%s, want canonical %s→%s",
			fetcher.lastIn.Hex(), fetcher.lastOut.Hex(), tokenA.Hex(), tokenB.Hex())
	}
	fetcher.mu.Unlock()

	if forward[0].BalanceIn.Int64() != 100 || forward[0].BalanceOut.Int64() != 200 {
		t.Errorf("canonical direction balances flipped: in=%s out=%s", forward[0].BalanceIn, forward[0].BalanceOut)
	}
	if reverse[0].BalanceIn.Int64() != 200 || reverse[0].BalanceOut.Int64() != 100 {
		t.Errorf("reverse direction not flipped: in=%s out=%s", reverse[0].BalanceIn, reverse[0].BalanceOut)
	}
	if reverse[0].WeightIn.Int64() != 2 || reverse[0].WeightOut.Int64() != 1 {
		t.Errorf("reverse direction weights not flipped: in=%s out=%s", reverse[0].WeightIn, reverse[0].WeightOut)
	}
	if reverse[0].ID != forward[0].ID || reverse[0].SwapFee.Cmp(forward[0].SwapFee) != 0 {
		t.Error("identity fields must survive orientation")
	}
}

func TestPoolCacheFailureGrace(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("subgraph down")}
	cache := NewPoolCache(fetcher, time.Minute, 50*time.Millisecond)

	if pools := cache.GetPoolsForPair(context.Background(), tokenA, tokenB); pools != nil {
		t.Errorf("failed fetch must read as empty, got %d pools", len(pools))
	}
	// Within the grace window the failure is served from cache.
	cache.GetPoolsForPair(context.Background(), tokenA, tokenB)
	if n := atomic.LoadInt32(&fetcher.fetches); n != 1 {
		t.Fatalf("expected 1 fetch inside grace window, got %d", n)
	}

	time.Sleep(60 * time.Millisecond)
	fetcher.err = nil
	fetcher.pools = []domain.BalancerPool{testPool(1, 2)}
	if pools := cache.GetPoolsForPair(context.Background(), tokenA, tokenB); len(pools) != 1 {
		t.Errorf("expected refetch after grace expiry, got %d pools", len(pools))
	}
	if n := atomic.LoadInt32(&fetcher.fetches); n != 2 {
		t.Errorf("expected 2 fetches after grace expiry, got %d", n)
	}
}

func TestPoolCacheSnapshotWarmStart(t *testing.T) {
	fetcher := &countingFetcher{pools: []domain.BalancerPool{testPool(100, 200)}}
	cache := NewPoolCache(fetcher, time.Minute, time.Second)
	cache.GetPoolsForPair(context.Background(), tokenA, tokenB)

	snap := cache.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 snapshot entry, got %d", len(snap))
	}

	// A fresh cache seeded from the snapshot must serve without refetching.
	coldFetcher := &countingFetcher{err: errors.New("must not be called")}
	warmed := NewPoolCache(coldFetcher, time.Minute, time.Second)
	if loaded := warmed.WarmStart(snap); loaded != 1 {
		t.Fatalf("expected 1 warm-started pair, got %d", loaded)
	}
	if pools := warmed.GetPoolsForPair(context.Background(), tokenB, tokenA); len(pools) != 1 {
		t.Errorf("warm-started pair not served, got %d pools", len(pools))
	}
	if n := atomic.LoadInt32(&coldFetcher.fetches); n != 0 {
		t.Errorf("warm-started cache fetched %d times", n)
	}

	// Expired snapshots are discarded on load.
	expired := snap
	expired[0].ExpiresAt = time.Now().Add(-time.Second)
	stale := NewPoolCache(coldFetcher, time.Minute, time.Second)
	if loaded := stale.WarmStart(expired); loaded != 0 {
		t.Errorf("expected 0 loaded from expired snapshot, got %d", loaded)
	}
}
