package http

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

func TestParseSources(t *testing.T) {
	t.Run("empty means all", func(t *testing.T) {
		sources, err := parseSources("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != len(defaultSources) {
			t.Errorf("got %d sources, want %d", len(sources), len(defaultSources))
		}
	})
	t.Run("filter with spaces", func(t *testing.T) {
		sources, err := parseSources("Uniswap, Balancer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != 2 || sources[0] != domain.SourceUniswap || sources[1] != domain.SourceBalancer {
			t.Errorf("got %v", sources)
		}
	})
	t.Run("unknown source", func(t *testing.T) {
		if _, err := parseSources("Uniswap,Sushi"); err == nil {
			t.Error("expected error for unknown source")
		}
	})
}

func TestToRowResponses(t *testing.T) {
	pool := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	rows := []domain.QuoteRow{
		{
			{
				Source:   domain.SourceBalancer,
				Input:    big.NewInt(100),
				Output:   big.NewInt(90),
				FillData: domain.FillData{Kind: domain.SourceBalancer, PoolAddress: pool},
			},
			{
				Source:   domain.SourceBalancer,
				Input:    big.NewInt(200),
				Output:   big.NewInt(170),
				FillData: domain.FillData{Kind: domain.SourceBalancer, PoolAddress: pool},
			},
		},
		{}, // empty rows are dropped
	}

	out := toRowResponses(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].Source != "Balancer" || out[0].PoolAddress != pool.Hex() {
		t.Errorf("row header %+v", out[0])
	}
	if len(out[0].Samples) != 2 || out[0].Samples[1].Input != "200" || out[0].Samples[1].Output != "170" {
		t.Errorf("samples %+v", out[0].Samples)
	}
}
