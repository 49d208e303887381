package config

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	engcommon "github.com/hexroute/sampler-engine/internal/common"
)

type SamplerConfig struct {
	// SamplerContract is the deployed read-only sampler contract every batch
	// operation targets.
	SamplerContract common.Address

	// WethAddress is the bridging asset used to synthesize multi-hop rows.
	WethAddress common.Address

	// LPRegistry addresses the liquidity-provider registry; zero disables the
	// LiquidityProvider source.
	LPRegistry common.Address

	// DefaultSamples is the sample count used when a request does not name one.
	DefaultSamples int

	// PoolCacheTTL bounds how long a fetched pool snapshot set stays fresh.
	PoolCacheTTL time.Duration

	// PoolCacheFailureGrace is how long a failed pool fetch is served as empty
	// before the upstream is retried.
	PoolCacheFailureGrace time.Duration

	// DBPath is the BoltDB file for warm-start pool snapshot persistence.
	// Empty disables persistence.
	DBPath string

	// PersistInterval is how often cached pool snapshots are batch-saved.
	PersistInterval time.Duration
}

func (c *SamplerConfig) Key() string {
	return SAMPLER_CONFIG_KEY
}

func (c *SamplerConfig) Load() error {
	c.SamplerContract = common.HexToAddress(engcommon.GetEnvOrDefault("SAMPLER_CONTRACT", ""))
	c.WethAddress = common.HexToAddress(engcommon.GetEnvOrDefault("WETH_ADDRESS", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"))
	c.LPRegistry = common.HexToAddress(engcommon.GetEnvOrDefault("LP_REGISTRY", ""))
	c.DefaultSamples = engcommon.GetEnvOrDefaultInt("DEFAULT_SAMPLES", 13)
	c.PoolCacheTTL = engcommon.GetEnvOrDefaultDuration("POOL_CACHE_TTL", 2*time.Minute)
	c.PoolCacheFailureGrace = engcommon.GetEnvOrDefaultDuration("POOL_CACHE_FAILURE_GRACE", 15*time.Second)
	c.DBPath = engcommon.GetEnvOrDefault("SAMPLER_DB_PATH", "./data/sampler.db")
	c.PersistInterval = engcommon.GetEnvOrDefaultDuration("SAMPLER_PERSIST_INTERVAL", 30*time.Second)
	return c.Validate()
}

func (c *SamplerConfig) Validate() error {
	if c.DefaultSamples <= 0 {
		return errors.New("invalid sampler config: DEFAULT_SAMPLES must be positive")
	}
	if (c.SamplerContract == common.Address{}) {
		return errors.New("invalid sampler config: SAMPLER_CONTRACT required")
	}
	return nil
}
