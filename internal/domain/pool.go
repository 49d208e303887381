package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalancerPool is an immutable snapshot of a weighted pool's state for one
// trading direction (in-token and out-token fixed at fetch time). A fresh
// fetch always produces a new snapshot; nothing mutates one in place.
type BalancerPool struct {
	ID         common.Address `json:"id"`
	BalanceIn  *big.Int       `json:"balanceIn"`
	BalanceOut *big.Int       `json:"balanceOut"`
	WeightIn   *big.Int       `json:"weightIn"`
	WeightOut  *big.Int       `json:"weightOut"`
	SwapFee    *big.Int       `json:"swapFee"`
}

// PairKey is the unordered token-pair cache key. Use NewPairKey so that
// (a, b) and (b, a) map to the same entry.
type PairKey struct {
	Lo common.Address
	Hi common.Address
}

func NewPairKey(a, b common.Address) PairKey {
	if byteCompare(a, b) > 0 {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

func byteCompare(a, b common.Address) int {
	for i := 0; i < common.AddressLength; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
