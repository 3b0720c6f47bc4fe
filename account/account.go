// Package account implements the ledger and position engine for one
// simulated trading account. Every public operation takes the account
// mutex, applies all of its ledger effects, and releases it: the
// engine is logically single-threaded per account with no internal
// suspension points, so concurrent callers are serialized and no
// operation partially applies. Prices are passed in per call; the
// engine performs no I/O of its own.
package account

import (
	"fmt"
	"sync"
	"time"

	"github.com/mwyrick/paperdesk/journal"
	"github.com/mwyrick/paperdesk/ledger"
)

// Mode selects which balance defaults the account runs on. Demo and
// live accounts behave identically; only the funding differs.
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// IsDemo is computed from the mode on demand, never stored, so it can
// never go stale against the mode.
func IsDemo(m Mode) bool { return m == ModeDemo }

// Params constructs an Account. StartingBalances maps each mode to its
// initial available funds; SetMode resets from the same map.
type Params struct {
	ID               string
	Mode             Mode
	StartingBalances map[Mode]map[string]float64
	Journal          journal.Journal // nil disables journaling
}

// Account owns one balance ledger, one order list and one position
// list. Nothing outside this package mutates them; all writes go
// through the operations defined on Account.
type Account struct {
	mu sync.Mutex

	id        string
	mode      Mode
	ledger    *ledger.Ledger
	orders    []*Order
	positions []*Position
	transfers []Transfer
	journal   journal.Journal
	defaults  map[Mode]map[string]float64
}

func New(p Params) *Account {
	if p.Mode == "" {
		p.Mode = ModeDemo
	}
	j := p.Journal
	if j == nil {
		j = journal.Nop{}
	}
	return &Account{
		id:       p.ID,
		mode:     p.Mode,
		ledger:   ledger.New(p.StartingBalances[p.Mode]),
		journal:  j,
		defaults: p.StartingBalances,
	}
}

func (a *Account) ID() string {
	return a.id
}

func (a *Account) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// SetMode switches between demo and live. This is a full, destructive
// account reset: all orders and positions are dropped and the ledger
// is reinitialized from the mode's starting balances. There is no
// incremental migration.
func (a *Account) SetMode(mode Mode) error {
	if mode != ModeDemo && mode != ModeLive {
		return fmt.Errorf("set mode %q: %w", mode, ErrInvalidState)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mode = mode
	a.ledger = ledger.New(a.defaults[mode])
	a.orders = nil
	a.positions = nil
	a.transfers = nil
	return nil
}

// Balance returns a copy of one asset's balance.
func (a *Account) Balance(symbol string) ledger.Balance {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Get(symbol)
}

// Orders returns copies of every order, resting and terminal.
func (a *Account) Orders() []Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Order, len(a.orders))
	for i, o := range a.orders {
		out[i] = *o
	}
	return out
}

// Positions returns copies of every open position.
func (a *Account) Positions() []Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Position, len(a.positions))
	for i, p := range a.positions {
		out[i] = *p
	}
	return out
}

// Transfers returns copies of recorded external transfers.
func (a *Account) Transfers() []Transfer {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Transfer, len(a.transfers))
	copy(out, a.transfers)
	return out
}

func (a *Account) findOrderLocked(orderID string) *Order {
	for _, o := range a.orders {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}

func (a *Account) findPositionLocked(positionID string) (int, *Position) {
	for i, p := range a.positions {
		if p.ID == positionID {
			return i, p
		}
	}
	return -1, nil
}

func now() time.Time { return time.Now().UTC() }
