package core

import (
	"math/big"

	"github.com/gofrs/uuid"
)

type (
	// CrossCurrencyRequest describes a collateral-currency sale covering a
	// local-currency requirement. LocalAvailable and CollateralAvailable are
	// signed settled figures (negative means debt); CollateralCashClaim is
	// the pre-haircut cash claim of the account's collateral-currency
	// liquidity tokens.
	CrossCurrencyRequest struct {
		AccountId          uuid.UUID `json:"accountId"`
		LocalCurrency      string    `json:"localCurrency"`
		CollateralCurrency string    `json:"collateralCurrency"`

		RequiredLocalAmount *big.Int `json:"requiredLocalAmount"`
		LocalAvailable      *big.Int `json:"localAvailable"`
		CollateralCashClaim *big.Int `json:"collateralCashClaim"`
		CollateralAvailable *big.Int `json:"collateralAvailable"`

		DiscountFactor   *big.Int `json:"discountFactor"`
		LiquidityHaircut *big.Int `json:"liquidityHaircut"`
	}

	// PurchaseOutcome sizes one collateral purchase: the pre-haircut claim
	// amount to raise by redemption, the local currency the liquidator
	// receives relief for, and the collateral sold to the liquidator.
	PurchaseOutcome struct {
		AmountToRaise    *big.Int `json:"amountToRaise"`
		LocalToPurchase  *big.Int `json:"localToPurchase"`
		CollateralToSell *big.Int `json:"collateralToSell"`
	}
)

func (r *CrossCurrencyRequest) Validate() error {
	if r == nil {
		return NegativeAmount
	}
	if err := ensureAmount(r.RequiredLocalAmount); err != nil {
		return err
	}
	if err := ensureSigned(r.LocalAvailable); err != nil {
		return err
	}
	if err := ensureAmount(r.CollateralCashClaim); err != nil {
		return err
	}
	if err := ensureSigned(r.CollateralAvailable); err != nil {
		return err
	}
	if r.DiscountFactor == nil || r.DiscountFactor.Sign() <= 0 {
		return InvalidRatio
	}
	if r.LiquidityHaircut == nil || r.LiquidityHaircut.Sign() < 0 || r.LiquidityHaircut.Cmp(DECIMALS) >= 0 {
		return InvalidRatio
	}
	return nil
}

// HaircutClaim is the portion of the collateral cash claim usable after the
// liquidity haircut.
func (r *CrossCurrencyRequest) HaircutClaim() (*big.Int, error) {
	remaining, err := oneMinus(r.LiquidityHaircut)
	if err != nil {
		return nil, err
	}
	return mulRatio(r.CollateralCashClaim, remaining)
}

// SizeLocalAmount bounds the local debt a liquidator takes on. The
// liquidator nets x*(buffer-discount) for taking on x of debt, so covering
// requiredLocal takes x = requiredLocal / (buffer - discount). Trading past
// the account's outstanding debt yields no further benefit and must not
// occur, so the result is capped at maxDebt.
func SizeLocalAmount(requiredLocal, discount, buffer, maxDebt *big.Int) (*big.Int, error) {
	if err := ensureAmount(requiredLocal); err != nil {
		return nil, err
	}
	if err := ensureAmount(maxDebt); err != nil {
		return nil, err
	}
	if discount == nil || buffer == nil || discount.Sign() <= 0 {
		return nil, InvalidRatio
	}
	spread := sub(buffer, discount)
	if spread.Sign() <= 0 {
		return nil, InvalidHaircutSpread
	}
	bounded, err := mulDiv(requiredLocal, DECIMALS, spread)
	if err != nil {
		return nil, err
	}
	return bigMin(bounded, maxDebt), nil
}

// SizePurchase applies the three-way availability policy, in order:
//
//  1. the plain collateral balance covers the sale outright;
//  2. the shortfall is covered by redeeming the haircut-adjusted claim,
//     still a full trade;
//  3. neither suffices: clamp the sale to everything extractable and scale
//     the purchased local amount down proportionally (partial settlement).
//
// A resolved sale that is not strictly positive is rejected with
// ZeroSaleAmount rather than silently no-opping.
func SizePurchase(haircutClaim, maxLocalToTrade *big.Int, req *CrossCurrencyRequest, rate *RateInfo) (*PurchaseOutcome, error) {
	if err := ensureAmount(haircutClaim); err != nil {
		return nil, err
	}
	if err := ensureAmount(maxLocalToTrade); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	remaining, err := oneMinus(req.LiquidityHaircut)
	if err != nil {
		return nil, err
	}

	collateralToSell, err := rate.LocalToCollateral(maxLocalToTrade, req.DiscountFactor)
	if err != nil {
		return nil, err
	}

	outcome := &PurchaseOutcome{
		AmountToRaise:    big.NewInt(0),
		LocalToPurchase:  new(big.Int).Set(maxLocalToTrade),
		CollateralToSell: collateralToSell,
	}

	extractable := add(req.CollateralAvailable, haircutClaim)
	switch {
	case req.CollateralAvailable.Cmp(collateralToSell) >= 0:
		// balance covers the sale, no redemption needed

	case extractable.Cmp(collateralToSell) >= 0:
		shortfall := sub(collateralToSell, req.CollateralAvailable)
		outcome.AmountToRaise, err = mulDiv(shortfall, DECIMALS, remaining)
		if err != nil {
			return nil, err
		}

	default:
		// partial settlement: sell everything extractable
		outcome.CollateralToSell = extractable
		outcome.AmountToRaise, err = mulDiv(haircutClaim, DECIMALS, remaining)
		if err != nil {
			return nil, err
		}
		if outcome.CollateralToSell.Sign() <= 0 {
			return nil, ZeroSaleAmount
		}
		localToPurchase, err := rate.CollateralToLocal(outcome.CollateralToSell, req.DiscountFactor)
		if err != nil {
			return nil, err
		}
		outcome.LocalToPurchase = bigMin(localToPurchase, maxLocalToTrade)
	}

	if outcome.CollateralToSell.Sign() <= 0 {
		return nil, ZeroSaleAmount
	}
	return outcome, nil
}
