package ledger

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

// Balance holds the two buckets tracked per asset symbol. AvgCost is
// a volume-weighted USD cost basis, maintained only for spot holdings
// and used for display-level unrealized PnL.
type Balance struct {
	Available float64
	Locked    float64
	AvgCost   float64
}

func (b Balance) Total() float64 {
	return b.Available + b.Locked
}

// Ledger maps asset symbol to Balance. It is not safe for concurrent
// use on its own; the owning account serializes access.
//
// Invariant: Available >= 0 and Locked >= 0 after every operation.
// Reserve and Release move quantity between the two buckets without
// changing their sum; only Settle changes the sum.
type Ledger struct {
	balances map[string]Balance
}

func New(initial map[string]float64) *Ledger {
	l := &Ledger{balances: make(map[string]Balance, len(initial))}
	for sym, amt := range initial {
		if amt > 0 {
			l.balances[sym] = Balance{Available: amt}
		}
	}
	return l
}

func (l *Ledger) Get(symbol string) Balance {
	return l.balances[symbol]
}

// Symbols returns every symbol with a non-zero balance, sorted.
func (l *Ledger) Symbols() []string {
	syms := make([]string, 0, len(l.balances))
	for sym, b := range l.balances {
		if b.Available != 0 || b.Locked != 0 {
			syms = append(syms, sym)
		}
	}
	sort.Strings(syms)
	return syms
}

// Reserve moves qty from available to locked.
func (l *Ledger) Reserve(symbol string, qty float64) error {
	if qty <= 0 {
		return fmt.Errorf("reserve %s: %w", symbol, ErrInvalidQuantity)
	}
	b := l.balances[symbol]
	if b.Available < qty {
		return fmt.Errorf("reserve %.8f %s, available %.8f: %w", qty, symbol, b.Available, ErrInsufficientFunds)
	}
	b.Available -= qty
	b.Locked += qty
	l.balances[symbol] = b
	return nil
}

// Release moves qty from locked back to available, clamped so locked
// never goes negative. Clamping guards against rounding drift from
// repeated partial fills.
func (l *Ledger) Release(symbol string, qty float64) {
	if qty <= 0 {
		return
	}
	b := l.balances[symbol]
	if qty > b.Locked {
		qty = b.Locked
	}
	b.Locked -= qty
	b.Available += qty
	l.balances[symbol] = b
}

// Settle adds a signed delta to available, clamped at zero. A delta
// more negative than the available balance leaves zero rather than a
// negative ledger entry.
func (l *Ledger) Settle(symbol string, delta float64) {
	if delta == 0 {
		return
	}
	b := l.balances[symbol]
	b.Available += delta
	if b.Available < 0 {
		b.Available = 0
	}
	l.balances[symbol] = b
}

// AdjustAvgCost folds addedQty units acquired at unitPrice into the
// volume-weighted average cost. Call before crediting the quantity so
// the current balance still reflects the prior holding.
func (l *Ledger) AdjustAvgCost(symbol string, addedQty, unitPrice float64) {
	if addedQty <= 0 {
		return
	}
	b := l.balances[symbol]
	oldQty := b.Total()
	if oldQty+addedQty <= 0 {
		b.AvgCost = unitPrice
	} else {
		b.AvgCost = (oldQty*b.AvgCost + addedQty*unitPrice) / (oldQty + addedQty)
	}
	l.balances[symbol] = b
}

// Snapshot returns a copy of every balance, including zeroed entries.
func (l *Ledger) Snapshot() map[string]Balance {
	out := make(map[string]Balance, len(l.balances))
	for sym, b := range l.balances {
		out[sym] = b
	}
	return out
}

// Restore replaces the ledger contents. Negative quantities are
// rejected; persisted state is repaired before it gets here.
func (l *Ledger) Restore(balances map[string]Balance) error {
	next := make(map[string]Balance, len(balances))
	for sym, b := range balances {
		if b.Available < 0 || b.Locked < 0 {
			return fmt.Errorf("restore %s: negative balance: %w", sym, ErrInvalidQuantity)
		}
		next[sym] = b
	}
	l.balances = next
	return nil
}
