package curve

import (
	"errors"
	"math/big"
	"testing"
)

func TestConstantProductOut(t *testing.T) {
	cases := []struct {
		name                          string
		balanceIn, balanceOut, amount int64
		want                          int64
	}{
		// out = in*997*bO / (bI*1000 + in*997), truncated
		{"balanced pool", 1000, 1000, 100, 90},
		{"deep pool small trade", 1_000_000, 1_000_000, 1000, 996},
		{"asymmetric reserves", 2000, 500, 100, 23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ConstantProductOut(big.NewInt(tc.balanceIn), big.NewInt(tc.balanceOut), big.NewInt(tc.amount))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Int64() != tc.want {
				t.Errorf("got %s, want %d", out, tc.want)
			}
		})
	}
}

func TestConstantProductRoundTrip(t *testing.T) {
	// Buying back exactly what a sell produced must cost at least the sell's
	// input: rounding always favors the pool.
	bI, bO := big.NewInt(1_000_000), big.NewInt(3_000_000)
	for _, amount := range []int64{1, 137, 5000, 250_000} {
		in := big.NewInt(amount)
		out, err := ConstantProductOut(bI, bO, in)
		if err != nil {
			t.Fatalf("sell %d: %v", amount, err)
		}
		if out.Sign() == 0 {
			continue
		}
		back, err := ConstantProductIn(bI, bO, out)
		if err != nil {
			t.Fatalf("buy back %s: %v", out, err)
		}
		if back.Cmp(in) < 0 {
			t.Errorf("amount %d: buying %s back costs %s, less than original input", amount, out, back)
		}
	}
}

func TestConstantProductInAddsOneWei(t *testing.T) {
	// bI=1000, bO=1000, out=90: floor(1000*90*1000 / (910*997)) = 99, +1.
	in, err := ConstantProductIn(big.NewInt(1000), big.NewInt(1000), big.NewInt(90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Int64() != 100 {
		t.Errorf("got %s, want 100", in)
	}
}

func TestConstantProductRejectsDraining(t *testing.T) {
	bI, bO := big.NewInt(1000), big.NewInt(1000)
	for _, out := range []int64{1000, 1001} {
		if _, err := ConstantProductIn(bI, bO, big.NewInt(out)); !errors.Is(err, ErrInvalidPoolState) {
			t.Errorf("out=%d: expected ErrInvalidPoolState, got %v", out, err)
		}
	}
	// One below the out-balance is still quotable.
	if _, err := ConstantProductIn(bI, bO, big.NewInt(999)); err != nil {
		t.Errorf("out=999: unexpected error: %v", err)
	}
}

func TestConstantProductInvalidInputs(t *testing.T) {
	cases := []struct {
		name                          string
		balanceIn, balanceOut, amount *big.Int
	}{
		{"zero in balance", big.NewInt(0), big.NewInt(1000), big.NewInt(10)},
		{"zero out balance", big.NewInt(1000), big.NewInt(0), big.NewInt(10)},
		{"zero amount", big.NewInt(1000), big.NewInt(1000), big.NewInt(0)},
		{"negative amount", big.NewInt(1000), big.NewInt(1000), big.NewInt(-5)},
		{"nil amount", big.NewInt(1000), big.NewInt(1000), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ConstantProductOut(tc.balanceIn, tc.balanceOut, tc.amount); !errors.Is(err, ErrInvalidPoolState) {
				t.Errorf("sell: expected ErrInvalidPoolState, got %v", err)
			}
			if _, err := ConstantProductIn(tc.balanceIn, tc.balanceOut, tc.amount); !errors.Is(err, ErrInvalidPoolState) {
				t.Errorf("buy: expected ErrInvalidPoolState, got %v", err)
			}
		})
	}
}
