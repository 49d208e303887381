package persistence

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/hexroute/sampler-engine/internal/domain"
	"github.com/hexroute/sampler-engine/internal/services/market"
)

const (
	PairsBucket = "pairs"

	DefaultDBPath = "./data/sampler.db"
)

// StoredPair is the on-disk form of one cached pair entry. Big integers are
// decimal strings so the layout survives JSON round trips losslessly.
type StoredPair struct {
	TokenLo   string       `json:"tokenLo"`
	TokenHi   string       `json:"tokenHi"`
	ExpiresAt int64        `json:"expiresAt"` // unix millis
	Pools     []StoredPool `json:"pools"`
}

type StoredPool struct {
	ID         string `json:"id"`
	BalanceIn  string `json:"balanceIn"`
	BalanceOut string `json:"balanceOut"`
	WeightIn   string `json:"weightIn"`
	WeightOut  string `json:"weightOut"`
	SwapFee    string `json:"swapFee"`
}

type Storage struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[samplerStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePairs writes the full cache snapshot in one batch, keyed by the
// canonical pair so a pair's newest snapshot always replaces its last one.
func (s *Storage) SavePairs(pairs []market.PairPools) error {
	if len(pairs) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for i := range pairs {
		stored := pairToStored(&pairs[i])
		data, err := sonic.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal pair %s/%s: %w", stored.TokenLo, stored.TokenHi, err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(PairsBucket),
			Key:    []byte(stored.TokenLo + ":" + stored.TokenHi),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add pair to batch: %w", err)
		}
	}
	return batch.Execute()
}

// LoadPairs reads back every persisted pair entry. Corrupt records are
// skipped, not fatal.
func (s *Storage) LoadPairs() ([]market.PairPools, error) {
	raw, err := s.db.List(PairsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs bucket: %w", err)
	}

	pairs := make([]market.PairPools, 0, len(raw))
	for key, data := range raw {
		var stored StoredPair
		if err := sonic.Unmarshal(data, &stored); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[samplerStorage] skipping corrupt pair record")
			continue
		}
		pair, ok := storedToPair(&stored)
		if !ok {
			log.Warn().Str("key", key).Msg("[samplerStorage] skipping malformed pair record")
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func pairToStored(pp *market.PairPools) *StoredPair {
	stored := &StoredPair{
		TokenLo:   pp.TokenLo.Hex(),
		TokenHi:   pp.TokenHi.Hex(),
		ExpiresAt: pp.ExpiresAt.UnixMilli(),
		Pools:     make([]StoredPool, len(pp.Pools)),
	}
	for i, p := range pp.Pools {
		stored.Pools[i] = StoredPool{
			ID:         p.ID.Hex(),
			BalanceIn:  p.BalanceIn.String(),
			BalanceOut: p.BalanceOut.String(),
			WeightIn:   p.WeightIn.String(),
			WeightOut:  p.WeightOut.String(),
			SwapFee:    p.SwapFee.String(),
		}
	}
	return stored
}

func storedToPair(stored *StoredPair) (market.PairPools, bool) {
	if !common.IsHexAddress(stored.TokenLo) || !common.IsHexAddress(stored.TokenHi) {
		return market.PairPools{}, false
	}
	pair := market.PairPools{
		TokenLo:   common.HexToAddress(stored.TokenLo),
		TokenHi:   common.HexToAddress(stored.TokenHi),
		ExpiresAt: time.UnixMilli(stored.ExpiresAt),
		Pools:     make([]domain.BalancerPool, 0, len(stored.Pools)),
	}
	for _, sp := range stored.Pools {
		if !common.IsHexAddress(sp.ID) {
			return market.PairPools{}, false
		}
		pool := domain.BalancerPool{ID: common.HexToAddress(sp.ID)}
		fields := []struct {
			dst **big.Int
			src string
		}{
			{&pool.BalanceIn, sp.BalanceIn},
			{&pool.BalanceOut, sp.BalanceOut},
			{&pool.WeightIn, sp.WeightIn},
			{&pool.WeightOut, sp.WeightOut},
			{&pool.SwapFee, sp.SwapFee},
		}
		for _, f := range fields {
			v, ok := new(big.Int).SetString(f.src, 10)
			if !ok {
				return market.PairPools{}, false
			}
			*f.dst = v
		}
		pair.Pools = append(pair.Pools, pool)
	}
	return pair, true
}
