package sampler

import (
	"errors"
	"math/big"
	"testing"

	"github.com/hexroute/sampler-engine/internal/common"
)

func TestSampleAmountsSingle(t *testing.T) {
	total := big.NewInt(12345)
	amounts, err := SampleAmounts(total, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(amounts) != 1 || amounts[0].Cmp(total) != 0 {
		t.Errorf("expected [12345], got %v", amounts)
	}
	if amounts[0] == total {
		t.Error("result must not alias the input")
	}
}

func TestSampleAmountsSmallTotal(t *testing.T) {
	// 100 over 3 samples with base-2 partial sums: 100/7, 300/7, 100.
	amounts, err := SampleAmounts(big.NewInt(100), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{14, 42, 100}
	for i, w := range want {
		if amounts[i].Int64() != w {
			t.Errorf("amounts[%d] = %s, want %d", i, amounts[i], w)
		}
	}
}

func TestSampleAmountsBumpsCollapsedNeighbors(t *testing.T) {
	// Truncation collapses everything to zero for total=3; bumping must
	// recover the only feasible sequence 1,2,3.
	amounts, err := SampleAmounts(big.NewInt(3), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		if amounts[i].Int64() != w {
			t.Errorf("amounts[%d] = %s, want %d", i, amounts[i], w)
		}
	}
}

func TestSampleAmountsProperties(t *testing.T) {
	total, _ := new(big.Int).SetString("1000000000000000000", 10)
	for _, count := range []int{13, 16} {
		amounts, err := SampleAmounts(total, count)
		if err != nil {
			t.Fatalf("count=%d: unexpected error: %v", count, err)
		}
		if len(amounts) != count {
			t.Fatalf("count=%d: expected %d samples, got %d", count, count, len(amounts))
		}
		for i := 1; i < count; i++ {
			if amounts[i].Cmp(amounts[i-1]) <= 0 {
				t.Errorf("count=%d: amounts[%d]=%s not greater than amounts[%d]=%s", count, i, amounts[i], i-1, amounts[i-1])
			}
		}
		if amounts[0].Sign() <= 0 {
			t.Errorf("count=%d: first sample %s not positive", count, amounts[0])
		}
		if amounts[count-1].Cmp(total) != 0 {
			t.Errorf("count=%d: last sample %s != total %s", count, amounts[count-1], total)
		}
		// Base-2 spacing roughly doubles early steps; the first sample must
		// sit well below an even split.
		even := new(big.Int).Div(total, big.NewInt(int64(count)))
		if amounts[0].Cmp(even) >= 0 {
			t.Errorf("count=%d: first sample %s should be below even split %s", count, amounts[0], even)
		}
	}
}

func TestSampleAmountsRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name  string
		total *big.Int
		count int
	}{
		{"nil total", nil, 5},
		{"zero total", big.NewInt(0), 5},
		{"negative total", big.NewInt(-1), 5},
		{"zero count", big.NewInt(100), 0},
		{"negative count", big.NewInt(100), -3},
		{"total below count", big.NewInt(2), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SampleAmounts(tc.total, tc.count)
			if !errors.Is(err, common.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestSampleAmountsDeterministic(t *testing.T) {
	total := big.NewInt(987654321)
	a, err := SampleAmounts(total, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := SampleAmounts(total, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			t.Errorf("sample %d differs between runs: %s vs %s", i, a[i], b[i])
		}
	}
}

func BenchmarkSampleAmounts(b *testing.B) {
	total, _ := new(big.Int).SetString("1000000000000000000", 10)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := SampleAmounts(total, 13); err != nil {
			b.Fatal(err)
		}
	}
}
