package core

import (
	"math/big"

	"github.com/gofrs/uuid"
)

type (
	// LocalRedemptionRequest asks for requiredAmount of local currency to be
	// recovered by redeeming the account's liquidity tokens in that same
	// currency. LiquidityHaircut and RepoIncentive are DECIMALS ratios.
	LocalRedemptionRequest struct {
		AccountId uuid.UUID `json:"accountId"`
		Currency  string    `json:"currency"`

		RequiredAmount   *big.Int `json:"requiredAmount"`
		LiquidityHaircut *big.Int `json:"liquidityHaircut"`
		RepoIncentive    *big.Int `json:"repoIncentive"`
	}

	// RedemptionOutcome reports what a redemption actually obtained.
	// CashWithdrawn never exceeds CashClaimsRequested.
	RedemptionOutcome struct {
		CashClaimsRequested *big.Int `json:"cashClaimsRequested"`
		CashWithdrawn       *big.Int `json:"cashWithdrawn"`
		LocalCurrencyRaised *big.Int `json:"localCurrencyRaised"`
	}

	// PostTradeResult converts a redemption outcome into account deltas.
	// IncentivePaid is a signed debit owed to the liquidator.
	PostTradeResult struct {
		IncentivePaid     *big.Int `json:"incentivePaid"`
		CreditedAmount    *big.Int `json:"creditedAmount"`
		NetAvailableAfter *big.Int `json:"netAvailableAfter"`
		RequiredAfter     *big.Int `json:"requiredAfter"`
	}
)

func (r *LocalRedemptionRequest) Validate() error {
	if r == nil {
		return NegativeAmount
	}
	if err := ensureAmount(r.RequiredAmount); err != nil {
		return err
	}
	if r.LiquidityHaircut == nil || r.LiquidityHaircut.Sign() < 0 || r.LiquidityHaircut.Cmp(DECIMALS) >= 0 {
		return InvalidRatio
	}
	if r.RepoIncentive == nil || r.RepoIncentive.Sign() <= 0 || r.RepoIncentive.Cmp(DECIMALS) > 0 {
		return InvalidRatio
	}
	return nil
}

// SizeCashClaims solves the forward claim identity for the cash claim to
// request from the ledger:
//
//	cashClaimsToTrade = requiredAmount * repoIncentive / (1 - liquidityHaircut)
//
// Only the incentive-scaled portion is requested; the non-incentive portion
// of the requirement is recovered elsewhere in the liquidation flow.
func SizeCashClaims(requiredAmount, liquidityHaircut, repoIncentive *big.Int) (*big.Int, error) {
	remaining, err := oneMinus(liquidityHaircut)
	if err != nil {
		return nil, err
	}
	return mulDiv(requiredAmount, repoIncentive, remaining)
}

// InvertCashClaims recomputes the local currency actually raised when the
// ledger fulfilled less than the requested claim. Exact inverse of
// SizeCashClaims, floored in the account's favor.
func InvertCashClaims(cashWithdrawn, liquidityHaircut, repoIncentive *big.Int) (*big.Int, error) {
	remaining, err := oneMinus(liquidityHaircut)
	if err != nil {
		return nil, err
	}
	return mulDiv(cashWithdrawn, remaining, repoIncentive)
}

// ReconcilePostTrade turns a redemption outcome into the incentive debit,
// the credit returned to the account and the updated requirement figures.
// NetAvailableAfter and RequiredAfter move by the same magnitude in opposite
// directions; that symmetry is exact and relied upon by callers.
func ReconcilePostTrade(cashWithdrawn, netAvailable, required, localCurrencyRaised, liquidityHaircut *big.Int) (*PostTradeResult, error) {
	if err := ensureAmount(cashWithdrawn); err != nil {
		return nil, err
	}
	if err := ensureSigned(netAvailable); err != nil {
		return nil, err
	}
	if err := ensureAmount(required); err != nil {
		return nil, err
	}
	if err := ensureAmount(localCurrencyRaised); err != nil {
		return nil, err
	}

	remaining, err := oneMinus(liquidityHaircut)
	if err != nil {
		return nil, err
	}
	haircutClaimAmount, err := mulRatio(cashWithdrawn, remaining)
	if err != nil {
		return nil, err
	}

	incentive := sub(haircutClaimAmount, localCurrencyRaised)

	result := &PostTradeResult{
		IncentivePaid:     neg(incentive),
		CreditedAmount:    sub(cashWithdrawn, incentive),
		NetAvailableAfter: add(netAvailable, sub(haircutClaimAmount, incentive)),
		RequiredAfter:     add(required, sub(incentive, haircutClaimAmount)),
	}
	for _, v := range []*big.Int{result.IncentivePaid, result.CreditedAmount, result.NetAvailableAfter, result.RequiredAfter} {
		if err := checkBound(v); err != nil {
			return nil, err
		}
	}
	return result, nil
}
