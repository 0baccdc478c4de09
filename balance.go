package core

import (
	"context"
	"math/big"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type (
	BalanceStore interface {
		FindBalance(ctx context.Context, accountId uuid.UUID, currency string) (*Balance, error)
		UpsertBalance(ctx context.Context, balance *Balance) error
		ListBalances(ctx context.Context, accountId uuid.UUID) ([]*Balance, error)
	}

	// Balance is an account's settled position in one currency. Negative
	// means debt.
	Balance struct {
		AccountId uuid.UUID `json:"accountId"`
		Currency  string    `json:"currency"`

		Active     bool     `json:"active"`
		Settled    *big.Int `json:"settled"`
		LastUpdate int64    `json:"lastUpdate"`
	}
)

func NewBalance(clk clock.Clock, accountId uuid.UUID, currency string) *Balance {
	return &Balance{
		AccountId: accountId,
		Currency:  currency,

		Active:     true,
		Settled:    big.NewInt(0),
		LastUpdate: clk.Now().Unix(),
	}
}

func FindOrCreateBalance(ctx context.Context, clk clock.Clock, store BalanceStore, accountId uuid.UUID, currency string) (*Balance, error) {
	balance, err := store.FindBalance(ctx, accountId, currency)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			balance = NewBalance(clk, accountId, currency)
			if err := store.UpsertBalance(ctx, balance); err != nil {
				return nil, err
			}
			return balance, nil
		}
		return nil, err
	}
	return balance, nil
}

func (b *Balance) Clone() *Balance {
	return &Balance{
		AccountId:  b.AccountId,
		Currency:   b.Currency,
		Active:     b.Active,
		Settled:    new(big.Int).Set(b.Settled),
		LastUpdate: b.LastUpdate,
	}
}

func (b *Balance) IsEmpty() bool {
	return b.Settled == nil || b.Settled.Sign() == 0
}

func (b *Balance) ApplyDelta(clk clock.Clock, delta *big.Int) error {
	if err := ensureSigned(delta); err != nil {
		return err
	}
	settled := add(b.Settled, delta)
	if err := checkBound(settled); err != nil {
		return err
	}
	b.Settled = settled
	b.LastUpdate = clk.Now().Unix()
	return nil
}

func (b *Balance) SetSettled(clk clock.Clock, settled *big.Int) error {
	if err := ensureSigned(settled); err != nil {
		return err
	}
	b.Settled = new(big.Int).Set(settled)
	b.LastUpdate = clk.Now().Unix()
	return nil
}

func (b *Balance) Close(clk clock.Clock) error {
	if !b.IsEmpty() {
		return IllegalBalanceState
	}
	b.Active = false
	b.Settled = big.NewInt(0)
	b.LastUpdate = clk.Now().Unix()
	return nil
}
