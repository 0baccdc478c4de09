package core

import (
	"math/big"
)

type (
	// RedeemFunc requests a liquidity token redemption for a cash amount and
	// returns the unfulfilled remainder.
	RedeemFunc func(requestedCashAmount *big.Int) (*big.Int, error)

	BalanceUpdate struct {
		NewBalance   *big.Int `json:"newBalance"`
		AmountRaised *big.Int `json:"amountRaised"`
	}
)

// ApplyRaise reconciles the payer's collateral balance against the sale. If
// the balance covers the sale the debit is direct and no redemption happens.
// Otherwise the raise request is the larger of the literal shortfall and the
// caller's hint: an over-raise from a partial settlement credits its excess
// back to the balance instead of narrowing the request, so the account is
// not penalized twice. A remainder above one integer unit means the upstream
// sizing disagrees with the ledger and aborts the attempt.
func ApplyRaise(payerBalance, collateralToSell, amountToRaise *big.Int, redeem RedeemFunc) (*BalanceUpdate, error) {
	if err := ensureSigned(payerBalance); err != nil {
		return nil, err
	}
	if err := ensureAmount(collateralToSell); err != nil {
		return nil, err
	}
	if amountToRaise == nil {
		amountToRaise = big.NewInt(0)
	}
	if err := ensureAmount(amountToRaise); err != nil {
		return nil, err
	}

	if payerBalance.Cmp(collateralToSell) >= 0 {
		return &BalanceUpdate{
			NewBalance:   sub(payerBalance, collateralToSell),
			AmountRaised: big.NewInt(0),
		}, nil
	}

	shortfall := sub(collateralToSell, payerBalance)
	raise := new(big.Int).Set(amountToRaise)
	if raise.Cmp(shortfall) < 0 {
		raise = shortfall
	}

	remainder, err := redeem(raise)
	if err != nil {
		return nil, err
	}
	if remainder == nil || remainder.Sign() < 0 || remainder.Cmp(raise) > 0 {
		return nil, IllegalRedemption
	}
	if remainder.Cmp(ONE) > 0 {
		return nil, RaiseReconciliationError
	}

	raised := sub(raise, remainder)
	newBalance := sub(add(payerBalance, raised), collateralToSell)
	if err := checkBound(newBalance); err != nil {
		return nil, err
	}
	return &BalanceUpdate{NewBalance: newBalance, AmountRaised: raised}, nil
}
