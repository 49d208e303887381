package curve

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// WeightedOut prices a sell against a weighted-pool snapshot:
// amount of out-token received for amountIn of in-token.
//
//	out = balanceOut * (1 - (balanceIn / (balanceIn + amountIn*(1-fee)))^(weightIn/weightOut))
func WeightedOut(pool *domain.BalancerPool, amountIn *big.Int) (*big.Int, error) {
	bI, bO, wI, wO, fee, err := poolState(pool)
	if err != nil {
		return nil, err
	}
	in, err := toU256(amountIn)
	if err != nil {
		return nil, err
	}
	if in.IsZero() {
		return nil, ErrInvalidPoolState
	}

	// The contract rejects trades above half the in-balance.
	maxIn, err := bmul(bI, maxInRatio)
	if err != nil {
		return nil, err
	}
	if in.Cmp(maxIn) > 0 {
		return nil, ErrInvalidPoolState
	}

	weightRatio, err := bdiv(wI, wO)
	if err != nil {
		return nil, err
	}
	oneSubFee, err := bsub(new(uint256.Int).Set(bone), fee)
	if err != nil {
		return nil, err
	}
	adjustedIn, err := bmul(in, oneSubFee)
	if err != nil {
		return nil, err
	}
	denom, err := badd(bI, adjustedIn)
	if err != nil {
		return nil, err
	}
	y, err := bdiv(bI, denom)
	if err != nil {
		return nil, err
	}
	foo, err := bpow(y, weightRatio)
	if err != nil {
		return nil, err
	}
	bar, err := bsub(new(uint256.Int).Set(bone), foo)
	if err != nil {
		return nil, err
	}
	out, err := bmul(bO, bar)
	if err != nil {
		return nil, err
	}
	return out.ToBig(), nil
}

// WeightedIn is the buy-side inverse: amount of in-token required to receive
// amountOut of out-token.
func WeightedIn(pool *domain.BalancerPool, amountOut *big.Int) (*big.Int, error) {
	bI, bO, wI, wO, fee, err := poolState(pool)
	if err != nil {
		return nil, err
	}
	out, err := toU256(amountOut)
	if err != nil {
		return nil, err
	}
	if out.IsZero() {
		return nil, ErrInvalidPoolState
	}

	maxOut, err := bmul(bO, maxOutRatio)
	if err != nil {
		return nil, err
	}
	if out.Cmp(maxOut) > 0 {
		return nil, ErrInvalidPoolState
	}

	weightRatio, err := bdiv(wO, wI)
	if err != nil {
		return nil, err
	}
	diff, err := bsub(bO, out)
	if err != nil {
		return nil, err
	}
	y, err := bdiv(bO, diff)
	if err != nil {
		return nil, err
	}
	pow, err := bpow(y, weightRatio)
	if err != nil {
		return nil, err
	}
	foo, err := bsub(pow, new(uint256.Int).Set(bone))
	if err != nil {
		return nil, err
	}
	num, err := bmul(bI, foo)
	if err != nil {
		return nil, err
	}
	oneSubFee, err := bsub(new(uint256.Int).Set(bone), fee)
	if err != nil {
		return nil, err
	}
	in, err := bdiv(num, oneSubFee)
	if err != nil {
		return nil, err
	}
	return in.ToBig(), nil
}

func poolState(pool *domain.BalancerPool) (bI, bO, wI, wO, fee *uint256.Int, err error) {
	if pool == nil {
		return nil, nil, nil, nil, nil, ErrInvalidPoolState
	}
	if bI, err = toU256(pool.BalanceIn); err != nil {
		return
	}
	if bO, err = toU256(pool.BalanceOut); err != nil {
		return
	}
	if wI, err = toU256(pool.WeightIn); err != nil {
		return
	}
	if wO, err = toU256(pool.WeightOut); err != nil {
		return
	}
	if fee, err = toU256(pool.SwapFee); err != nil {
		return
	}
	if bI.IsZero() || bO.IsZero() || wI.IsZero() || wO.IsZero() || fee.Cmp(bone) >= 0 {
		err = ErrInvalidPoolState
	}
	return
}

func toU256(v *big.Int) (*uint256.Int, error) {
	if v == nil || v.Sign() < 0 {
		return nil, ErrInvalidPoolState
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return u, nil
}
