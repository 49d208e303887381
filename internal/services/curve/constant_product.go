package curve

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Constant-product fee parameters (30 bps taken on input, V2 semantics).
var (
	feeNumerator   = uint256.NewInt(997)
	feeDenominator = uint256.NewInt(1000)
)

// ConstantProductOut prices a sell against an x*y=k pool with the 30 bps fee
// applied to the input. Division truncates toward zero, which favors the
// pool, matching the contract being modeled.
func ConstantProductOut(balanceIn, balanceOut, amountIn *big.Int) (*big.Int, error) {
	bI, err := toU256(balanceIn)
	if err != nil {
		return nil, err
	}
	bO, err := toU256(balanceOut)
	if err != nil {
		return nil, err
	}
	in, err := toU256(amountIn)
	if err != nil {
		return nil, err
	}
	if bI.IsZero() || bO.IsZero() || in.IsZero() {
		return nil, ErrInvalidPoolState
	}

	inWithFee, overflow := new(uint256.Int).MulOverflow(in, feeNumerator)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	num, overflow := new(uint256.Int).MulOverflow(inWithFee, bO)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	scaled, overflow := new(uint256.Int).MulOverflow(bI, feeDenominator)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	den, overflow := new(uint256.Int).AddOverflow(scaled, inWithFee)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return num.Div(num, den).ToBig(), nil
}

// ConstantProductIn is the buy-side inverse: input required to withdraw
// amountOut. Rounds up by one wei so the pool never comes out behind.
func ConstantProductIn(balanceIn, balanceOut, amountOut *big.Int) (*big.Int, error) {
	bI, err := toU256(balanceIn)
	if err != nil {
		return nil, err
	}
	bO, err := toU256(balanceOut)
	if err != nil {
		return nil, err
	}
	out, err := toU256(amountOut)
	if err != nil {
		return nil, err
	}
	if bI.IsZero() || bO.IsZero() || out.IsZero() {
		return nil, ErrInvalidPoolState
	}
	// The pool cannot be drained to or past its out-balance.
	if out.Cmp(bO) >= 0 {
		return nil, ErrInvalidPoolState
	}

	num, overflow := new(uint256.Int).MulOverflow(bI, out)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	num, overflow = num.MulOverflow(num, feeDenominator)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	remaining := new(uint256.Int).Sub(bO, out)
	den, overflow := new(uint256.Int).MulOverflow(remaining, feeNumerator)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	in := num.Div(num, den)
	in, overflow = in.AddOverflow(in, uint256.NewInt(1))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return in.ToBig(), nil
}
