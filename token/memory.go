package token

import (
	"context"
	"sync"
)

// MemoryClient is an in-process payment token, the stand-in for the
// settlement currency when no external one is wired up. Used by the tests
// and by development setups.
type MemoryClient struct {
	mu         sync.Mutex
	balances   map[string]int64
	allowances map[string]map[string]int64
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		balances:   map[string]int64{},
		allowances: map[string]map[string]int64{},
	}
}

// Mint credits an account out of thin air. Test and dev helper only.
func (m *MemoryClient) Mint(account string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] += amount
}

func (m *MemoryClient) BalanceOf(ctx context.Context, account string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account], nil
}

func (m *MemoryClient) Transfer(ctx context.Context, from, to string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transfer(from, to, amount)
}

func (m *MemoryClient) TransferFrom(ctx context.Context, spender, from, to string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if spender != from {
		if m.allowances[from][spender] < amount {
			return ErrInsufficientAllowance
		}
	}
	if err := m.transfer(from, to, amount); err != nil {
		return err
	}
	if spender != from {
		m.allowances[from][spender] -= amount
	}
	return nil
}

func (m *MemoryClient) Approve(ctx context.Context, owner, spender string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.allowances[owner] == nil {
		m.allowances[owner] = map[string]int64{}
	}
	m.allowances[owner][spender] = amount
	return nil
}

// transfer assumes the lock is held. Either both balances change or neither.
func (m *MemoryClient) transfer(from, to string, amount int64) error {
	if m.balances[from] < amount {
		return ErrInsufficientBalance
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}

var _ Client = (*MemoryClient)(nil)
