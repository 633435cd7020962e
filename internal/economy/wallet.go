// Package economy holds the coin balance and the booster shop.
package economy

import (
	"log/slog"
	"sync"
)

// StartingBalance — баланс нового игрока.
const StartingBalance = 40

// Wallet — баланс монет игрока. Безопасен для конкурентного использования.
type Wallet struct {
	mu      sync.Mutex
	balance int
}

// NewWallet создаёт кошелёк с balance монет.
func NewWallet(balance int) *Wallet {
	return &Wallet{balance: max(balance, 0)}
}

// Balance возвращает текущее количество монет.
func (w *Wallet) Balance() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// Credit начисляет amount монет. Неположительные суммы игнорируются.
func (w *Wallet) Credit(amount int) {
	if amount <= 0 {
		return
	}
	w.mu.Lock()
	w.balance += amount
	w.mu.Unlock()
	slog.Debug("wallet credited", "amount", amount)
}

// Debit списывает amount монет. Если монет не хватает, возвращает false
// и баланс не меняется.
func (w *Wallet) Debit(amount int) bool {
	if amount < 0 {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.balance < amount {
		return false
	}
	w.balance -= amount
	return true
}
