package core

import (
	"context"
	"math/big"

	"github.com/gofrs/uuid"
)

type (
	// LedgerPort is the collaborator the engine calls into. It can redeem
	// liquidity tokens for a requested cash amount — returning the portion
	// it could not fulfill — and report or update an account's settled
	// balance. The engine never implements it.
	//
	// The remainder returned by RedeemLiquidityToken is the sole source of
	// truth for what was actually obtained: callers must never assume the
	// full requested amount was granted.
	LedgerPort interface {
		RedeemLiquidityToken(ctx context.Context, accountId uuid.UUID, currency string, requestedCashAmount *big.Int) (remainder *big.Int, err error)
		SettledBalance(ctx context.Context, accountId uuid.UUID, currency string) (*big.Int, error)
		UpdateSettledBalance(ctx context.Context, accountId uuid.UUID, currency string, newBalance *big.Int) error
	}

	// LedgerService aggregates the persistence interfaces a host wires in.
	LedgerService struct {
		AccountStore
		BalanceStore
		LiquidationResultStore
	}
)
