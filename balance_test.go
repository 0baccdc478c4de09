package core

import (
	"context"
	"math/big"
	"testing"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mapBalanceStore struct {
	balances map[string]*Balance
}

func newMapBalanceStore() *mapBalanceStore {
	return &mapBalanceStore{balances: make(map[string]*Balance)}
}

func (s *mapBalanceStore) FindBalance(ctx context.Context, accountId uuid.UUID, currency string) (*Balance, error) {
	if b, ok := s.balances[ledgerKey(accountId, currency)]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *mapBalanceStore) UpsertBalance(ctx context.Context, balance *Balance) error {
	s.balances[ledgerKey(balance.AccountId, balance.Currency)] = balance
	return nil
}

func (s *mapBalanceStore) ListBalances(ctx context.Context, accountId uuid.UUID) ([]*Balance, error) {
	out := []*Balance{}
	for _, b := range s.balances {
		if b.AccountId == accountId {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestFindOrCreateBalance(t *testing.T) {
	clk := clock.NewMock()
	svc := LedgerService{BalanceStore: newMapBalanceStore()}
	accountId := uuid.Must(uuid.NewV4())

	created, err := FindOrCreateBalance(context.Background(), clk, svc, accountId, "USD")
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.True(t, created.IsEmpty())

	found, err := FindOrCreateBalance(context.Background(), clk, svc, accountId, "USD")
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestBalanceApplyDelta(t *testing.T) {
	clk := clock.NewMock()
	b := NewBalance(clk, uuid.Must(uuid.NewV4()), "ETH")

	require.NoError(t, b.ApplyDelta(clk, u(10)))
	require.NoError(t, b.ApplyDelta(clk, neg(u(25))))
	assert.Zero(t, b.Settled.Cmp(neg(u(15))))

	assert.ErrorIs(t, b.ApplyDelta(clk, nil), NegativeAmount)
}

func TestBalanceClose(t *testing.T) {
	clk := clock.NewMock()
	b := NewBalance(clk, uuid.Must(uuid.NewV4()), "ETH")

	require.NoError(t, b.ApplyDelta(clk, u(1)))
	assert.ErrorIs(t, b.Close(clk), IllegalBalanceState)

	require.NoError(t, b.ApplyDelta(clk, neg(u(1))))
	require.NoError(t, b.Close(clk))
	assert.False(t, b.Active)
}

func TestBalanceClone(t *testing.T) {
	clk := clock.NewMock()
	b := NewBalance(clk, uuid.Must(uuid.NewV4()), "ETH")
	require.NoError(t, b.SetSettled(clk, u(7)))

	c := b.Clone()
	require.NoError(t, c.ApplyDelta(clk, u(1)))

	assert.Zero(t, b.Settled.Cmp(u(7)), "clone must not alias the original")
	assert.Zero(t, c.Settled.Cmp(u(8)))
}

func TestNewAccountDeterministicId(t *testing.T) {
	clk := clock.NewMock()

	a := NewAccount(clk, "pubkey-1", 0)
	b := NewAccount(clk, "pubkey-1", 0)
	c := NewAccount(clk, "pubkey-1", 1)

	assert.Equal(t, a.Id, b.Id)
	assert.NotEqual(t, a.Id, c.Id)
	assert.NotEqual(t, uuid.Nil, a.Id)
}

func TestAccountFlags(t *testing.T) {
	clk := clock.NewMock()
	a := NewAccount(clk, "pubkey-1", 0)

	assert.False(t, a.GetFlag(DisabledFlag))

	a.SetFlag(DisabledFlag)
	a.SetFlag(SettleOnlyFlag)
	assert.True(t, a.GetFlag(DisabledFlag))
	assert.True(t, a.GetFlag(SettleOnlyFlag))

	a.UnsetFlag(DisabledFlag)
	assert.False(t, a.GetFlag(DisabledFlag))
	assert.True(t, a.GetFlag(SettleOnlyFlag))
}

func TestMemLedgerRedeem(t *testing.T) {
	ledger := NewMemLedger()
	accountId := uuid.Must(uuid.NewV4())
	ledger.SetClaim(accountId, "USD", u(10))

	remainder, err := ledger.RedeemLiquidityToken(context.Background(), accountId, "USD", u(4))
	require.NoError(t, err)
	assert.Zero(t, remainder.Sign())
	assert.Zero(t, ledger.Claim(accountId, "USD").Cmp(u(6)))

	remainder, err = ledger.RedeemLiquidityToken(context.Background(), accountId, "USD", u(10))
	require.NoError(t, err)
	assert.Zero(t, remainder.Cmp(u(4)))
	assert.Zero(t, ledger.Claim(accountId, "USD").Sign())

	settled, err := ledger.SettledBalance(context.Background(), accountId, "USD")
	require.NoError(t, err)
	assert.Zero(t, settled.Cmp(u(10)))

	_, err = ledger.RedeemLiquidityToken(context.Background(), accountId, "USD", big.NewInt(-1))
	assert.ErrorIs(t, err, NegativeAmount)
}
