// Package curve holds the pure pricing math for every AMM invariant the
// sampler can price locally. No I/O, exact integer arithmetic only; rounding
// always favors the pool so a locally priced quote never overstates what the
// on-chain evaluation would return.
package curve

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	ErrInvalidPoolState   = errors.New("invalid pool state")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)

// Fixed-point constants mirroring the weighted-pool contract (BONE = 1e18).
var (
	bone          = uint256.NewInt(1_000_000_000_000_000_000)
	boneHalf      = uint256.NewInt(500_000_000_000_000_000)
	bpowPrecision = uint256.NewInt(100_000_000) // BONE / 1e10
	maxInRatio    = uint256.NewInt(500_000_000_000_000_000)
	maxOutRatio   = new(uint256.Int).AddUint64(uint256.NewInt(333_333_333_333_333_333), 1)
	maxBPowBase   = new(uint256.Int).SubUint64(new(uint256.Int).Mul(uint256.NewInt(2), bone), 1)
)

func badd(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

func bsub(a, b *uint256.Int) (*uint256.Int, error) {
	z, neg := bsubSign(a, b)
	if neg {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

func bsubSign(a, b *uint256.Int) (*uint256.Int, bool) {
	if a.Cmp(b) >= 0 {
		return new(uint256.Int).Sub(a, b), false
	}
	return new(uint256.Int).Sub(b, a), true
}

// bmul rounds half up, exactly like the contract's bmul.
func bmul(a, b *uint256.Int) (*uint256.Int, error) {
	c0, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	c1, overflow := new(uint256.Int).AddOverflow(c0, boneHalf)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return c1.Div(c1, bone), nil
}

// bdiv scales the numerator by BONE and rounds half up on the divisor.
func bdiv(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrInvalidPoolState
	}
	c0, overflow := new(uint256.Int).MulOverflow(a, bone)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	c1, overflow := new(uint256.Int).AddOverflow(c0, new(uint256.Int).Div(b, uint256.NewInt(2)))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return c1.Div(c1, b), nil
}

func btoi(a *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(a, bone)
}

func bfloor(a *uint256.Int) *uint256.Int {
	return new(uint256.Int).Mul(btoi(a), bone)
}

// bpowi computes a^n by squaring in BONE fixed point.
func bpowi(a *uint256.Int, n uint64) (*uint256.Int, error) {
	z := new(uint256.Int).Set(bone)
	if n%2 != 0 {
		z.Set(a)
	}
	base := new(uint256.Int).Set(a)
	var err error
	for n /= 2; n != 0; n /= 2 {
		base, err = bmul(base, base)
		if err != nil {
			return nil, err
		}
		if n%2 != 0 {
			z, err = bmul(z, base)
			if err != nil {
				return nil, err
			}
		}
	}
	return z, nil
}

// bpow splits exp into whole and fractional parts: the whole part goes
// through bpowi, the fraction through the same truncated binomial series the
// contract uses, so results agree with on-chain evaluation bit for bit.
func bpow(base, exp *uint256.Int) (*uint256.Int, error) {
	if base.IsZero() {
		return nil, ErrInvalidPoolState
	}
	if base.Cmp(maxBPowBase) > 0 {
		return nil, ErrInvalidPoolState
	}

	whole := bfloor(exp)
	remain, err := bsub(exp, whole)
	if err != nil {
		return nil, err
	}

	wholeN := btoi(whole)
	if !wholeN.IsUint64() {
		return nil, ErrArithmeticOverflow
	}
	wholePow, err := bpowi(base, wholeN.Uint64())
	if err != nil {
		return nil, err
	}
	if remain.IsZero() {
		return wholePow, nil
	}

	partial, err := bpowApprox(base, remain, bpowPrecision)
	if err != nil {
		return nil, err
	}
	return bmul(wholePow, partial)
}

func bpowApprox(base, exp, precision *uint256.Int) (*uint256.Int, error) {
	a := new(uint256.Int).Set(exp)
	x, xneg := bsubSign(base, bone)
	term := new(uint256.Int).Set(bone)
	sum := new(uint256.Int).Set(bone)
	negative := false
	var err error

	// term(k) = term(k-1) * (a - (k-1)*BONE) * x / (k*BONE)
	for i := uint64(1); term.Cmp(precision) >= 0; i++ {
		bigK := new(uint256.Int).Mul(uint256.NewInt(i), bone)
		kMinusOne, serr := bsub(bigK, bone)
		if serr != nil {
			return nil, serr
		}
		c, cneg := bsubSign(a, kMinusOne)
		cx, merr := bmul(c, x)
		if merr != nil {
			return nil, merr
		}
		term, err = bmul(term, cx)
		if err != nil {
			return nil, err
		}
		term, err = bdiv(term, bigK)
		if err != nil {
			return nil, err
		}
		if term.IsZero() {
			break
		}
		if xneg {
			negative = !negative
		}
		if cneg {
			negative = !negative
		}
		if negative {
			sum, err = bsub(sum, term)
		} else {
			sum, err = badd(sum, term)
		}
		if err != nil {
			return nil, err
		}
	}
	return sum, nil
}
