package core

import (
	"context"
	"math/big"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeCashClaims(t *testing.T) {
	// requiredAmount = 100, haircut = 20%, incentive = 10%
	// cashClaimsToTrade = 100 * 0.10 / 0.80 = 12.5
	claims, err := SizeCashClaims(u(100), pct(20), pct(10))
	require.NoError(t, err)

	expected := new(big.Int).Div(u(25), big.NewInt(2))
	assert.Zero(t, claims.Cmp(expected), "expected %s, got %s", expected, claims)
}

func TestInvertCashClaimsRoundTrip(t *testing.T) {
	claims, err := SizeCashClaims(u(100), pct(20), pct(10))
	require.NoError(t, err)

	raised, err := InvertCashClaims(claims, pct(20), pct(10))
	require.NoError(t, err)
	assert.Zero(t, raised.Cmp(u(100)))
}

func TestRedeemLocalConservation(t *testing.T) {
	accountId := uuid.Must(uuid.NewV4())
	ledger := NewMemLedger()
	ledger.SetClaim(accountId, "USD", u(1000))

	liq := NewLiquidator(ledger, nil)
	outcome, err := liq.RedeemLocal(context.Background(), nil, &LocalRedemptionRequest{
		AccountId:        accountId,
		Currency:         "USD",
		RequiredAmount:   u(100),
		LiquidityHaircut: pct(20),
		RepoIncentive:    pct(10),
	})
	require.NoError(t, err)

	// remainder = 0: localCurrencyRaised equals requiredAmount exactly
	assert.Zero(t, outcome.CashWithdrawn.Cmp(outcome.CashClaimsRequested))
	assert.Zero(t, outcome.LocalCurrencyRaised.Cmp(u(100)))
}

func TestRedeemLocalUnderfilled(t *testing.T) {
	accountId := uuid.Must(uuid.NewV4())
	ledger := NewMemLedger()
	// claim covers only 10 of the 12.5 requested
	ledger.SetClaim(accountId, "USD", u(10))

	liq := NewLiquidator(ledger, nil)
	outcome, err := liq.RedeemLocal(context.Background(), nil, &LocalRedemptionRequest{
		AccountId:        accountId,
		Currency:         "USD",
		RequiredAmount:   u(100),
		LiquidityHaircut: pct(20),
		RepoIncentive:    pct(10),
	})
	require.NoError(t, err)

	assert.Zero(t, outcome.CashWithdrawn.Cmp(u(10)))

	// raised recomputed from what was actually withdrawn: 10 * 0.8 / 0.1 = 80
	assert.Zero(t, outcome.LocalCurrencyRaised.Cmp(u(80)))
	assert.True(t, outcome.LocalCurrencyRaised.Cmp(u(100)) < 0)
}

func TestLocalRedemptionRequestValidate(t *testing.T) {
	base := func() *LocalRedemptionRequest {
		return &LocalRedemptionRequest{
			RequiredAmount:   u(1),
			LiquidityHaircut: pct(20),
			RepoIncentive:    pct(10),
		}
	}

	assert.NoError(t, base().Validate())

	req := base()
	req.RequiredAmount = big.NewInt(-1)
	assert.ErrorIs(t, req.Validate(), NegativeAmount)

	req = base()
	req.LiquidityHaircut = DECIMALS
	assert.ErrorIs(t, req.Validate(), InvalidRatio)

	req = base()
	req.RepoIncentive = ZERO
	assert.ErrorIs(t, req.Validate(), InvalidRatio)
}

func TestReconcilePostTrade(t *testing.T) {
	// required = 100, haircut = 20%, incentive = 10%, remainder = 0,
	// netAvailable = -100
	post, err := ReconcilePostTrade(
		new(big.Int).Div(u(25), big.NewInt(2)), // cashWithdrawn = 12.5
		neg(u(100)),                            // netAvailable
		u(100),                                 // required
		u(100),                                 // localCurrencyRaised
		pct(20),
	)
	require.NoError(t, err)

	// haircutClaim = 12.5 * 0.8 = 10; incentive = 10 - 100 = -90
	assert.Zero(t, post.IncentivePaid.Cmp(u(90)))
	assert.Zero(t, post.CreditedAmount.Cmp(new(big.Int).Div(u(205), big.NewInt(2)))) // 12.5 + 90
	assert.Zero(t, post.NetAvailableAfter.Sign())
	assert.Zero(t, post.RequiredAfter.Sign())
}

func TestReconcilePostTradeSymmetry(t *testing.T) {
	tests := []struct {
		name                       string
		cashWithdrawn, raised      *big.Int
		netAvailable, required     *big.Int
		haircut                    *big.Int
	}{
		{"underfilled", u(10), u(80), neg(u(100)), u(100), pct(20)},
		{"full", new(big.Int).Div(u(25), big.NewInt(2)), u(100), neg(u(100)), u(100), pct(20)},
		{"zero withdrawal", ZERO, ZERO, neg(u(50)), u(50), pct(30)},
		{"small figures", big.NewInt(7), big.NewInt(3), big.NewInt(-11), big.NewInt(13), pct(25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := ReconcilePostTrade(tt.cashWithdrawn, tt.netAvailable, tt.required, tt.raised, tt.haircut)
			require.NoError(t, err)

			netDelta := sub(post.NetAvailableAfter, tt.netAvailable)
			requiredDelta := sub(post.RequiredAfter, tt.required)
			assert.Zero(t, netDelta.Cmp(neg(requiredDelta)),
				"net delta %s is not the mirror of required delta %s", netDelta, requiredDelta)
		})
	}
}

func TestLiquidateLocalLiquidityTokens(t *testing.T) {
	accountId := uuid.Must(uuid.NewV4())
	ledger := NewMemLedger()
	ledger.SetClaim(accountId, "USD", u(1000))

	store := &recordingResultStore{}
	liq := NewLiquidator(ledger, nil, WithResultStore(store))

	outcome, post, err := liq.LiquidateLocalLiquidityTokens(context.Background(), nil, &LocalRedemptionRequest{
		AccountId:        accountId,
		Currency:         "USD",
		RequiredAmount:   u(100),
		LiquidityHaircut: pct(20),
		RepoIncentive:    pct(10),
	}, neg(u(100)))
	require.NoError(t, err)

	assert.Zero(t, outcome.LocalCurrencyRaised.Cmp(u(100)))
	assert.Zero(t, post.RequiredAfter.Sign())

	require.Len(t, store.results, 1)
	assert.Equal(t, LiquidationKindLocalTokens, store.results[0].Kind)
	assert.Equal(t, accountId, store.results[0].AccountId)
}

type recordingResultStore struct {
	results []*LiquidationResult
}

func (s *recordingResultStore) StorageLiquidationResult(ctx context.Context, result *LiquidationResult) error {
	s.results = append(s.results, result)
	return nil
}
