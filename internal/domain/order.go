package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SignedOrder is an off-chain limit order plus its signature, as submitted to
// the order-state sampler. The engine treats it as opaque beyond the token and
// amount fields used to turn fillable taker amounts into quotes.
type SignedOrder struct {
	MakerAddress common.Address `json:"makerAddress"`
	TakerAddress common.Address `json:"takerAddress"`
	MakerToken   common.Address `json:"makerToken"`
	TakerToken   common.Address `json:"takerToken"`
	MakerAmount  *big.Int       `json:"makerAmount"`
	TakerAmount  *big.Int       `json:"takerAmount"`
	Expiry       *big.Int       `json:"expiry"`
	Salt         *big.Int       `json:"salt"`
	Signature    []byte         `json:"signature"`
}
