package subgraph

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestDecimalToWei(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		decimals int
		want     string
		ok       bool
	}{
		{"whole number", "5", 18, "5000000000000000000", true},
		{"fraction", "0.0015", 18, "1500000000000000", true},
		{"mixed", "12.5", 6, "12500000", true},
		{"zero decimals", "42", 0, "42", true},
		{"excess fraction truncated", "1.1234567", 6, "1123456", true},
		{"empty", "", 18, "", false},
		{"negative", "-1", 18, "", false},
		{"garbage", "abc", 18, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := decimalToWei(tc.in, tc.decimals)
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if !tc.ok {
				return
			}
			want, _ := new(big.Int).SetString(tc.want, 10)
			if got.Cmp(want) != 0 {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestFetchPools(t *testing.T) {
	tokenIn := common.HexToAddress("0x000000000000000000000000000000000000000a")
	tokenOut := common.HexToAddress("0x000000000000000000000000000000000000000b")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// One valid pool, one missing the out-token, one with a zero balance.
		w.Write([]byte(`{"data":{"pools":[
			{"id":"0x00000000000000000000000000000000000000c1","swapFee":"0.0015","tokens":[
				{"address":"0x000000000000000000000000000000000000000a","balance":"100","denormWeight":"5","decimals":18},
				{"address":"0x000000000000000000000000000000000000000b","balance":"200","denormWeight":"5","decimals":6}]},
			{"id":"0x00000000000000000000000000000000000000c2","swapFee":"0.001","tokens":[
				{"address":"0x000000000000000000000000000000000000000a","balance":"100","denormWeight":"5","decimals":18}]},
			{"id":"0x00000000000000000000000000000000000000c3","swapFee":"0.001","tokens":[
				{"address":"0x000000000000000000000000000000000000000a","balance":"0","denormWeight":"5","decimals":18},
				{"address":"0x000000000000000000000000000000000000000b","balance":"200","denormWeight":"5","decimals":6}]}
		]}}`))
	}))
	defer server.Close()

	pools, err := NewFetcher(server.URL).FetchPools(context.Background(), tokenIn, tokenOut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pools) != 1 {
		t.Fatalf("expected 1 usable pool, got %d", len(pools))
	}

	p := pools[0]
	if p.ID != common.HexToAddress("0x00000000000000000000000000000000000000c1") {
		t.Errorf("pool id %s", p.ID.Hex())
	}
	wantBalanceIn, _ := new(big.Int).SetString("100000000000000000000", 10)
	if p.BalanceIn.Cmp(wantBalanceIn) != 0 {
		t.Errorf("balanceIn %s, want %s", p.BalanceIn, wantBalanceIn)
	}
	if p.BalanceOut.Int64() != 200_000_000 {
		t.Errorf("balanceOut %s, want 200e6", p.BalanceOut)
	}
	wantFee, _ := new(big.Int).SetString("1500000000000000", 10)
	if p.SwapFee.Cmp(wantFee) != 0 {
		t.Errorf("swapFee %s, want %s", p.SwapFee, wantFee)
	}
}

func TestFetchPoolsErrors(t *testing.T) {
	t.Run("graphql error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
		}))
		defer server.Close()
		if _, err := NewFetcher(server.URL).FetchPools(context.Background(), common.Address{1}, common.Address{2}); err == nil {
			t.Error("expected error for graphql error payload")
		}
	})
	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()
		if _, err := NewFetcher(server.URL).FetchPools(context.Background(), common.Address{1}, common.Address{2}); err == nil {
			t.Error("expected error for non-200 status")
		}
	})
}
