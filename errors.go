package core

import (
	"github.com/pkg/errors"
)

// Precondition violations: bad caller state, abort immediately, never retried.
var (
	NoLocalDebt          = errors.New("liquidate: account has no local currency debt")
	InvalidHaircutSpread = errors.New("liquidate: buffer must exceed discount")
	ZeroSaleAmount       = errors.New("liquidate: resolved collateral sale amount is zero")
	InvalidRatio         = errors.New("ratio out of range")
	NegativeAmount       = errors.New("amount must not be negative")
	AccountDisabled      = errors.New("account is disabled")
	IllegalRedemption    = errors.New("redemption remainder exceeds requested amount")
	IllegalBalanceState  = errors.New("illegal balance state")
	BalanceNotFound      = errors.New("balance not found")
	RateUnavailable      = errors.New("no exchange rate available")
)

// Reconciliation anomalies: the collaborator disagrees with our sizing.
// These imply a design or data bug upstream, not bad caller input.
var (
	RaiseReconciliationError = errors.New("raise remainder exceeds one unit")
)

// Arithmetic failures in fixed-point conversions. Unreachable under valid
// protocol inputs; surfaced distinctly so tests can assert exactly that.
var (
	MathError    = errors.New("math error")
	MathOverflow = errors.New("fixed point overflow")
)
