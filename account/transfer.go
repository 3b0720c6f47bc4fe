package account

import (
	"fmt"
	"time"

	"github.com/mwyrick/paperdesk/internal/id"
)

// Transfer records an externally settled deposit or withdrawal. TxID
// is whatever identifier the wallet collaborator produced; the engine
// stores it verbatim and never interprets it.
type Transfer struct {
	ID     string
	Symbol string
	Amount float64 // positive deposit, negative withdrawal
	TxID   string
	Time   time.Time
}

// Deposit credits available funds.
func (a *Account) Deposit(symbol string, amount float64, txID string) (Transfer, error) {
	if amount <= 0 {
		return Transfer{}, fmt.Errorf("deposit %s: amount %.8f: %w", symbol, amount, ErrInvalidQuantity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.ledger.Settle(symbol, amount)
	t := Transfer{ID: id.New(), Symbol: symbol, Amount: amount, TxID: txID, Time: now()}
	a.transfers = append(a.transfers, t)
	return t, nil
}

// Withdraw debits available funds. Locked funds cannot be withdrawn.
func (a *Account) Withdraw(symbol string, amount float64, txID string) (Transfer, error) {
	if amount <= 0 {
		return Transfer{}, fmt.Errorf("withdraw %s: amount %.8f: %w", symbol, amount, ErrInvalidQuantity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ledger.Get(symbol).Available < amount {
		return Transfer{}, fmt.Errorf("withdraw %.8f %s: %w", amount, symbol, ErrInsufficientFunds)
	}
	a.ledger.Settle(symbol, -amount)
	t := Transfer{ID: id.New(), Symbol: symbol, Amount: -amount, TxID: txID, Time: now()}
	a.transfers = append(a.transfers, t)
	return t, nil
}
