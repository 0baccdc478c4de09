package core

import (
	"context"
	"math/big"
	"sync"

	"github.com/gofrs/uuid"
)

// MemLedger is an in-memory LedgerPort. It backs the test suite and serves
// as a reference for what the engine expects from a real ledger: redeeming
// draws down the account's outstanding cash claim and credits its settled
// balance, and the remainder reports exactly the unfulfilled portion.
type MemLedger struct {
	mu       sync.Mutex
	claims   map[string]*big.Int
	balances map[string]*big.Int
}

func NewMemLedger() *MemLedger {
	return &MemLedger{
		claims:   make(map[string]*big.Int),
		balances: make(map[string]*big.Int),
	}
}

func (m *MemLedger) SetClaim(accountId uuid.UUID, currency string, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims[ledgerKey(accountId, currency)] = new(big.Int).Set(amount)
}

func (m *MemLedger) SetBalance(accountId uuid.UUID, currency string, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[ledgerKey(accountId, currency)] = new(big.Int).Set(amount)
}

func (m *MemLedger) Claim(accountId uuid.UUID, currency string) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(m.claims, accountId, currency)
}

func (m *MemLedger) RedeemLiquidityToken(ctx context.Context, accountId uuid.UUID, currency string, requestedCashAmount *big.Int) (*big.Int, error) {
	if err := ensureAmount(requestedCashAmount); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := ledgerKey(accountId, currency)
	claim := m.lookup(m.claims, accountId, currency)

	fulfilled := bigMin(claim, requestedCashAmount)
	m.claims[key] = sub(claim, fulfilled)
	m.balances[key] = add(m.lookup(m.balances, accountId, currency), fulfilled)

	return sub(requestedCashAmount, fulfilled), nil
}

func (m *MemLedger) SettledBalance(ctx context.Context, accountId uuid.UUID, currency string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(m.balances, accountId, currency), nil
}

func (m *MemLedger) UpdateSettledBalance(ctx context.Context, accountId uuid.UUID, currency string, newBalance *big.Int) error {
	if err := ensureSigned(newBalance); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[ledgerKey(accountId, currency)] = new(big.Int).Set(newBalance)
	return nil
}

func (m *MemLedger) lookup(table map[string]*big.Int, accountId uuid.UUID, currency string) *big.Int {
	if v, ok := table[ledgerKey(accountId, currency)]; ok {
		return new(big.Int).Set(v)
	}
	return big.NewInt(0)
}

func ledgerKey(accountId uuid.UUID, currency string) string {
	return accountId.String() + "/" + currency
}
