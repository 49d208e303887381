package sampler

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hexroute/sampler-engine/internal/adapters/evm"
	"github.com/hexroute/sampler-engine/internal/adapters/persistence"
	"github.com/hexroute/sampler-engine/internal/adapters/subgraph"
	engcommon "github.com/hexroute/sampler-engine/internal/common"
	"github.com/hexroute/sampler-engine/internal/config"
	"github.com/hexroute/sampler-engine/internal/domain"
	"github.com/hexroute/sampler-engine/internal/services/market"
)

const SAMPLER_SERVICE = "sampler-service"

// Service wires the quote engine into the runtime: transport, pool cache,
// warm-start persistence and the periodic snapshot loop.
type Service struct {
	container.BaseDIInstance
	logger *engcommon.ServiceLogger

	config    *config.SamplerConfig
	transport *evm.Transport
	cache     *market.PoolCache
	storage   *persistence.Storage
	engine    *Engine

	stopPersist chan struct{}
	persistDone sync.WaitGroup
}

func (svc *Service) ID() string {
	return SAMPLER_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = engcommon.NewServiceLogger(svc)
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	svc.config = c.GetConfig(config.SAMPLER_CONFIG_KEY).(*config.SamplerConfig)

	transport, err := evm.NewTransport(rpcConfig.RPCUrl)
	if err != nil {
		return err
	}
	svc.transport = transport

	fetcher := subgraph.NewFetcher(rpcConfig.SubgraphUrl)
	svc.cache = market.NewPoolCache(fetcher, svc.config.PoolCacheTTL, svc.config.PoolCacheFailureGrace)
	svc.engine = NewEngine(transport, svc.cache, svc.config)

	if svc.config.DBPath != "" {
		storage, err := persistence.NewStorage(svc.config.DBPath)
		if err != nil {
			return err
		}
		svc.storage = storage
	}

	return nil
}

func (svc *Service) Start() error {
	if svc.storage != nil {
		pairs, err := svc.storage.LoadPairs()
		if err != nil {
			svc.logger.Warn().Err(err).Msg("warm start failed, starting cold")
		} else if loaded := svc.cache.WarmStart(pairs); loaded > 0 {
			svc.logger.Info().Int("pairs", loaded).Msg("warm started pool cache")
		}

		svc.stopPersist = make(chan struct{})
		svc.persistDone.Add(1)
		go svc.persistLoop()
	}
	return nil
}

func (svc *Service) Stop() error {
	if svc.stopPersist != nil {
		close(svc.stopPersist)
		svc.persistDone.Wait()
	}
	if svc.storage != nil {
		svc.persistSnapshot()
		if err := svc.storage.Close(); err != nil {
			svc.logger.Error().Err(err).Msg("failed to close storage")
		}
	}
	if svc.transport != nil {
		svc.transport.Close()
	}
	return nil
}

func (svc *Service) persistLoop() {
	defer svc.persistDone.Done()
	ticker := time.NewTicker(svc.config.PersistInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			svc.persistSnapshot()
		case <-svc.stopPersist:
			return
		}
	}
}

func (svc *Service) persistSnapshot() {
	pairs := svc.cache.Snapshot()
	if len(pairs) == 0 {
		return
	}
	if err := svc.storage.SavePairs(pairs); err != nil {
		svc.logger.Error().Err(err).Msg("failed to persist pool snapshot")
		return
	}
	svc.logger.Debug().Int("pairs", len(pairs)).Msg("persisted pool snapshot")
}

// DefaultSamples exposes the configured sample count for callers that do not
// name one.
func (svc *Service) DefaultSamples() int {
	return svc.config.DefaultSamples
}

// CacheSize reports the number of pairs currently cached.
func (svc *Service) CacheSize() int {
	return svc.cache.Size()
}

// CachedPairs returns the settled cache contents, for the debug endpoint.
func (svc *Service) CachedPairs() []market.PairPools {
	return svc.cache.Snapshot()
}

func (svc *Service) GetSellQuotes(
	ctx context.Context,
	sources []domain.Source,
	makerToken, takerToken common.Address,
	takerAmounts []*big.Int,
	orders []domain.SignedOrder,
) ([]domain.QuoteRow, error) {
	return svc.engine.GetSellQuotes(ctx, sources, makerToken, takerToken, takerAmounts, orders)
}

func (svc *Service) GetBuyQuotes(
	ctx context.Context,
	sources []domain.Source,
	makerToken, takerToken common.Address,
	makerAmounts []*big.Int,
) ([]domain.QuoteRow, error) {
	return svc.engine.GetBuyQuotes(ctx, sources, makerToken, takerToken, makerAmounts)
}
