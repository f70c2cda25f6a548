package game

import (
	"fmt"
	"sync"
)

// MemoryWallet is an in-memory WalletStore for tests and embedding
type MemoryWallet struct {
	mu       sync.Mutex
	balances map[int64]int
}

// NewMemoryWallet returns a wallet pre-loaded with the given balances
func NewMemoryWallet(balances map[int64]int) *MemoryWallet {
	b := make(map[int64]int)
	for id, balance := range balances {
		b[id] = balance
	}

	return &MemoryWallet{balances: b}
}

// Balance returns the player's balance
func (w *MemoryWallet) Balance(playerID int64) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	balance, ok := w.balances[playerID]
	if !ok {
		return 0, fmt.Errorf("no wallet for player %d", playerID)
	}

	return balance, nil
}

// AdjustBalance applies a delta to the player's balance
func (w *MemoryWallet) AdjustBalance(playerID int64, delta int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	balance, ok := w.balances[playerID]
	if !ok {
		return fmt.Errorf("no wallet for player %d", playerID)
	}

	w.balances[playerID] = balance + delta
	return nil
}
