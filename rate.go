package core

import (
	"math/big"

	"github.com/shopspring/decimal"
)

type (
	// RateProvider supplies a read-only exchange rate snapshot valid for
	// the duration of one liquidation call.
	RateProvider interface {
		GetRateInfo(localCurrency, collateralCurrency string) (*RateInfo, error)
	}

	// RateInfo carries the local/collateral exchange rate together with the
	// decimal bases of the rate and of both currencies. The three bases are
	// independent and must each be divided out in place during conversion.
	RateInfo struct {
		Rate               *big.Int `json:"rate"`
		RateDecimals       *big.Int `json:"rateDecimals"`
		LocalDecimals      *big.Int `json:"localDecimals"`
		CollateralDecimals *big.Int `json:"collateralDecimals"`
	}
)

// NewRateInfo builds a snapshot from an already scaled integer rate and the
// decimal places of the rate and both currencies.
func NewRateInfo(rate *big.Int, rateScale, localScale, collateralScale int32) (*RateInfo, error) {
	info := &RateInfo{
		Rate:               rate,
		RateDecimals:       pow10(rateScale),
		LocalDecimals:      pow10(localScale),
		CollateralDecimals: pow10(collateralScale),
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// NewRateInfoFromQuote converts an oracle quote into the integer snapshot the
// engine consumes. The quote is truncated, never rounded up, at rateScale
// places: a liquidator must not be owed collateral the rate cannot justify.
func NewRateInfoFromQuote(quote decimal.Decimal, rateScale, localScale, collateralScale int32) (*RateInfo, error) {
	return NewRateInfo(quote.Shift(rateScale).Truncate(0).BigInt(), rateScale, localScale, collateralScale)
}

func (r *RateInfo) Validate() error {
	if r == nil || r.Rate == nil || r.RateDecimals == nil || r.LocalDecimals == nil || r.CollateralDecimals == nil {
		return MathError
	}
	if r.Rate.Sign() <= 0 || r.RateDecimals.Sign() <= 0 || r.LocalDecimals.Sign() <= 0 || r.CollateralDecimals.Sign() <= 0 {
		return MathError
	}
	return nil
}

// LocalToCollateral converts a local currency amount into the collateral
// amount a liquidator buys at discountFactor. Each decimal base is divided
// out in place so bases differing by orders of magnitude cannot starve the
// intermediate of precision.
func (r *RateInfo) LocalToCollateral(localAmount, discountFactor *big.Int) (*big.Int, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if localAmount == nil || localAmount.Sign() < 0 || discountFactor == nil || discountFactor.Sign() <= 0 {
		return nil, MathError
	}
	x := new(big.Int).Mul(r.Rate, localAmount)
	x.Mul(x, discountFactor)
	x.Quo(x, r.RateDecimals)
	x.Quo(x, r.LocalDecimals)
	x.Mul(x, r.CollateralDecimals)
	x.Quo(x, DECIMALS)
	if err := checkBound(x); err != nil {
		return nil, err
	}
	return x, nil
}

// CollateralToLocal inverts LocalToCollateral: the local currency a given
// collateral sale purchases at discountFactor.
func (r *RateInfo) CollateralToLocal(collateralAmount, discountFactor *big.Int) (*big.Int, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if collateralAmount == nil || collateralAmount.Sign() < 0 || discountFactor == nil || discountFactor.Sign() <= 0 {
		return nil, MathError
	}
	x := new(big.Int).Mul(collateralAmount, r.RateDecimals)
	x.Mul(x, r.LocalDecimals)
	x.Mul(x, DECIMALS)
	x.Quo(x, r.Rate)
	x.Quo(x, discountFactor)
	x.Quo(x, r.CollateralDecimals)
	if err := checkBound(x); err != nil {
		return nil, err
	}
	return x, nil
}

func pow10(scale int32) *big.Int {
	if scale < 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
}
