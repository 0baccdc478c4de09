package core

import (
	"math/big"
)

// Fixed-point helpers. Amounts and ratios are integers scaled by DECIMALS.
// Multiplication always runs at full width before any division, and every
// division is a floor division on non-negative operands — rounding direction
// is a protocol invariant, so float and precision-rounded decimal types are
// off limits here.

// mulDiv returns floor(a * b / den).
func mulDiv(a, b, den *big.Int) (*big.Int, error) {
	if a == nil || b == nil || den == nil {
		return nil, MathError
	}
	if a.Sign() < 0 || b.Sign() < 0 || den.Sign() <= 0 {
		return nil, MathError
	}
	out := new(big.Int).Mul(a, b)
	out.Quo(out, den)
	if err := checkBound(out); err != nil {
		return nil, err
	}
	return out, nil
}

// mulRatio scales amount by a DECIMALS-denominated ratio.
func mulRatio(amount, ratio *big.Int) (*big.Int, error) {
	return mulDiv(amount, ratio, DECIMALS)
}

// divRatio un-scales amount by a DECIMALS-denominated ratio.
func divRatio(amount, ratio *big.Int) (*big.Int, error) {
	return mulDiv(amount, DECIMALS, ratio)
}

// oneMinus returns DECIMALS - ratio for a ratio strictly inside [0, 100%).
func oneMinus(ratio *big.Int) (*big.Int, error) {
	if ratio == nil || ratio.Sign() < 0 || ratio.Cmp(DECIMALS) >= 0 {
		return nil, InvalidRatio
	}
	return new(big.Int).Sub(DECIMALS, ratio), nil
}

func checkBound(v *big.Int) error {
	if v.CmpAbs(MAX_VALUE) > 0 {
		return MathOverflow
	}
	return nil
}

// ensureAmount validates a caller-supplied unsigned quantity.
func ensureAmount(v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return NegativeAmount
	}
	return checkBound(v)
}

// ensureSigned validates a caller-supplied signed quantity.
func ensureSigned(v *big.Int) error {
	if v == nil {
		return NegativeAmount
	}
	return checkBound(v)
}

func add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }
func neg(a *big.Int) *big.Int    { return new(big.Int).Neg(a) }

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
