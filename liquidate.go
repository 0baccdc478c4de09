package core

import (
	"context"
	"math/big"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

type (
	LiquidationResultStore interface {
		StorageLiquidationResult(ctx context.Context, result *LiquidationResult) error
	}

	LiquidationResult struct {
		AccountId          uuid.UUID       `json:"accountId"`
		Kind               LiquidationKind `json:"kind"`
		LocalCurrency      string          `json:"localCurrency"`
		CollateralCurrency string          `json:"collateralCurrency,omitempty"`

		Redemption *RedemptionOutcome `json:"redemption,omitempty"`
		PostTrade  *PostTradeResult   `json:"postTrade,omitempty"`
		Purchase   *PurchaseOutcome   `json:"purchase,omitempty"`
		Balance    *BalanceUpdate     `json:"balance,omitempty"`

		CreatedAt int64 `json:"createdAt"`
	}

	// CrossCurrencyResult is what a cross-currency liquidation or settlement
	// hands back: the local debt relief purchased, the collateral sold for
	// it, and the payer's reconciled balance.
	CrossCurrencyResult struct {
		LocalPurchased *big.Int `json:"localPurchased"`
		CollateralSold *big.Int `json:"collateralSold"`
		AmountRaised   *big.Int `json:"amountRaised"`
		NewBalance     *big.Int `json:"newBalance"`
	}

	// Liquidator wires the arithmetic engine to its collaborators. It holds
	// no state of its own between calls; every liquidation attempt is one
	// synchronous computation inside the caller's transaction boundary.
	Liquidator struct {
		clk      clock.Clock
		ledger   LedgerPort
		rates    RateProvider
		accounts AccountStore
		results  LiquidationResultStore
	}
)

type LiquidationKind uint8

const (
	LiquidationKindLocalTokens LiquidationKind = iota + 1
	LiquidationKindCollateral
	LiquidationKindSettlement
)

func (k LiquidationKind) String() string {
	switch k {
	case LiquidationKindLocalTokens:
		return "LocalTokens"
	case LiquidationKindCollateral:
		return "Collateral"
	case LiquidationKindSettlement:
		return "Settlement"
	default:
		return "Unknown"
	}
}

type LiquidatorOption func(l *Liquidator)

func WithClock(clk clock.Clock) LiquidatorOption {
	return func(l *Liquidator) {
		l.clk = clk
	}
}

func WithAccountStore(store AccountStore) LiquidatorOption {
	return func(l *Liquidator) {
		l.accounts = store
	}
}

func WithResultStore(store LiquidationResultStore) LiquidatorOption {
	return func(l *Liquidator) {
		l.results = store
	}
}

func NewLiquidator(ledger LedgerPort, rates RateProvider, opts ...LiquidatorOption) *Liquidator {
	l := &Liquidator{
		clk:    clock.New(),
		ledger: ledger,
		rates:  rates,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RedeemLocal sizes a liquidity token redemption against the ledger and
// interprets its outcome. All sizing happens before the ledger call; the
// returned remainder is the only truth about what was obtained.
func (l *Liquidator) RedeemLocal(ctx context.Context, log Log, req *LocalRedemptionRequest) (*RedemptionOutcome, error) {
	log = ensureLog(log)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := SizeCashClaims(req.RequiredAmount, req.LiquidityHaircut, req.RepoIncentive)
	if err != nil {
		return nil, err
	}

	remainder := big.NewInt(0)
	if claims.Sign() > 0 {
		remainder, err = l.ledger.RedeemLiquidityToken(ctx, req.AccountId, req.Currency, claims)
		if err != nil {
			return nil, errors.Wrap(err, "redeem liquidity token")
		}
		if remainder == nil || remainder.Sign() < 0 || remainder.Cmp(claims) > 0 {
			return nil, IllegalRedemption
		}
	}

	outcome := &RedemptionOutcome{
		CashClaimsRequested: claims,
		CashWithdrawn:       sub(claims, remainder),
		LocalCurrencyRaised: new(big.Int).Set(req.RequiredAmount),
	}
	if remainder.Sign() > 0 {
		log.Debug().Msgf("redemption underfilled: requested %s, remainder %s", claims, remainder)
		outcome.LocalCurrencyRaised, err = InvertCashClaims(outcome.CashWithdrawn, req.LiquidityHaircut, req.RepoIncentive)
		if err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// LiquidateLocalLiquidityTokens recovers value in the debt's own currency by
// redeeming the account's liquidity tokens and reconciling the proceeds into
// credit, incentive and updated requirement figures.
func (l *Liquidator) LiquidateLocalLiquidityTokens(ctx context.Context, log Log, req *LocalRedemptionRequest, netAvailable *big.Int) (*RedemptionOutcome, *PostTradeResult, error) {
	log = ensureLog(log)
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	if err := l.checkAccount(ctx, req.AccountId, true); err != nil {
		return nil, nil, err
	}

	outcome, err := l.RedeemLocal(ctx, log, req)
	if err != nil {
		return nil, nil, err
	}

	post, err := ReconcilePostTrade(outcome.CashWithdrawn, netAvailable, req.RequiredAmount, outcome.LocalCurrencyRaised, req.LiquidityHaircut)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Msgf("local token liquidation for %s: withdrew %s %s, credited %s, required after %s",
		req.AccountId, outcome.CashWithdrawn, req.Currency, post.CreditedAmount, post.RequiredAfter)

	if err := l.storeResult(ctx, &LiquidationResult{
		AccountId:     req.AccountId,
		Kind:          LiquidationKindLocalTokens,
		LocalCurrency: req.Currency,
		Redemption:    outcome,
		PostTrade:     post,
		CreatedAt:     l.clk.Now().Unix(),
	}); err != nil {
		return nil, nil, err
	}
	return outcome, post, nil
}

// Liquidate sells the account's collateral currency to the liquidator at a
// discount to cover local currency debt. It requires an actual local debt;
// voluntary exchanges go through Settle.
func (l *Liquidator) Liquidate(ctx context.Context, log Log, payer uuid.UUID, payerBalance, buffer *big.Int, req *CrossCurrencyRequest, rate *RateInfo) (*CrossCurrencyResult, error) {
	log = ensureLog(log)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := l.checkAccount(ctx, payer, true); err != nil {
		return nil, err
	}
	if req.LocalAvailable.Sign() >= 0 {
		return nil, NoLocalDebt
	}
	if buffer == nil || buffer.Sign() <= 0 {
		return nil, InvalidRatio
	}

	rate, err := l.resolveRate(ctx, rate, req)
	if err != nil {
		return nil, err
	}

	maxDebt := neg(req.LocalAvailable)
	maxLocalToTrade, err := SizeLocalAmount(req.RequiredLocalAmount, req.DiscountFactor, buffer, maxDebt)
	if err != nil {
		return nil, err
	}

	return l.executeTrade(ctx, log, LiquidationKindCollateral, payer, payerBalance, maxLocalToTrade, req, rate)
}

// Settle is the voluntary variant of Liquidate: no debt precondition and no
// local-amount sizing, the caller-supplied requirement is traded as given.
func (l *Liquidator) Settle(ctx context.Context, log Log, payer uuid.UUID, payerBalance *big.Int, req *CrossCurrencyRequest, rate *RateInfo) (*CrossCurrencyResult, error) {
	log = ensureLog(log)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := l.checkAccount(ctx, payer, false); err != nil {
		return nil, err
	}

	rate, err := l.resolveRate(ctx, rate, req)
	if err != nil {
		return nil, err
	}

	return l.executeTrade(ctx, log, LiquidationKindSettlement, payer, payerBalance, req.RequiredLocalAmount, req, rate)
}

func (l *Liquidator) executeTrade(ctx context.Context, log Log, kind LiquidationKind, payer uuid.UUID, payerBalance, maxLocalToTrade *big.Int, req *CrossCurrencyRequest, rate *RateInfo) (*CrossCurrencyResult, error) {
	haircutClaim, err := req.HaircutClaim()
	if err != nil {
		return nil, err
	}

	outcome, err := SizePurchase(haircutClaim, maxLocalToTrade, req, rate)
	if err != nil {
		return nil, err
	}

	if payerBalance == nil {
		payerBalance, err = l.ledger.SettledBalance(ctx, payer, req.CollateralCurrency)
		if err != nil {
			return nil, errors.Wrap(err, "settled balance")
		}
	}

	update, err := ApplyRaise(payerBalance, outcome.CollateralToSell, outcome.AmountToRaise, func(amount *big.Int) (*big.Int, error) {
		return l.ledger.RedeemLiquidityToken(ctx, payer, req.CollateralCurrency, amount)
	})
	if err != nil {
		return nil, err
	}

	if err := l.ledger.UpdateSettledBalance(ctx, payer, req.CollateralCurrency, update.NewBalance); err != nil {
		return nil, errors.Wrap(err, "update settled balance")
	}

	log.Info().Msgf("%s for %s: sold %s %s for %s %s, balance %s",
		kind, payer, outcome.CollateralToSell, req.CollateralCurrency, outcome.LocalToPurchase, req.LocalCurrency, update.NewBalance)

	if err := l.storeResult(ctx, &LiquidationResult{
		AccountId:          payer,
		Kind:               kind,
		LocalCurrency:      req.LocalCurrency,
		CollateralCurrency: req.CollateralCurrency,
		Purchase:           outcome,
		Balance:            update,
		CreatedAt:          l.clk.Now().Unix(),
	}); err != nil {
		return nil, err
	}

	return &CrossCurrencyResult{
		LocalPurchased: outcome.LocalToPurchase,
		CollateralSold: outcome.CollateralToSell,
		AmountRaised:   update.AmountRaised,
		NewBalance:     update.NewBalance,
	}, nil
}

func (l *Liquidator) resolveRate(ctx context.Context, rate *RateInfo, req *CrossCurrencyRequest) (*RateInfo, error) {
	if rate != nil {
		return rate, rate.Validate()
	}
	if l.rates == nil {
		return nil, RateUnavailable
	}
	rate, err := l.rates.GetRateInfo(req.LocalCurrency, req.CollateralCurrency)
	if err != nil {
		return nil, errors.Wrap(err, "rate info")
	}
	return rate, rate.Validate()
}

func (l *Liquidator) checkAccount(ctx context.Context, accountId uuid.UUID, discounted bool) error {
	if l.accounts == nil {
		return nil
	}
	account, err := l.accounts.GetAccountById(ctx, accountId)
	if err != nil {
		return errors.Wrapf(err, "account %s", accountId)
	}
	if account.GetFlag(DisabledFlag) {
		return AccountDisabled
	}
	if discounted && account.GetFlag(SettleOnlyFlag) {
		return AccountDisabled
	}
	return nil
}

func (l *Liquidator) storeResult(ctx context.Context, result *LiquidationResult) error {
	if l.results == nil {
		return nil
	}
	return errors.Wrap(l.results.StorageLiquidationResult(ctx, result), "store liquidation result")
}
