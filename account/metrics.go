package account

import "github.com/mwyrick/paperdesk/market"

// Metrics are account-wide aggregates re-derived from live quotes on
// every call. Nothing here is cached or stored.
type Metrics struct {
	// PortfolioValue is every balance (available + locked) at its USD
	// price, plus the unrealized PnL of all open positions.
	PortfolioValue float64
	// LockedValue is the USD value of locked funds only.
	LockedValue float64
	// UnrealizedPnL sums open-position PnL at current marks.
	UnrealizedPnL float64
	// HoldingPnL is the display-level gain on spot holdings against
	// their average cost basis.
	HoldingPnL float64
}

// Metrics computes aggregates from the supplied quote source. Assets
// or positions with no usable quote contribute nothing; a stale feed
// produces a visibly low number, never a crash.
func (a *Account) Metrics(quotes market.QuoteSource) Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	var m Metrics
	for _, sym := range a.ledger.Symbols() {
		q, err := quotes.Quote(sym)
		if err != nil || q.USD <= 0 {
			continue
		}
		b := a.ledger.Get(sym)
		m.PortfolioValue += b.Total() * q.USD
		m.LockedValue += b.Locked * q.USD
		if b.AvgCost > 0 {
			m.HoldingPnL += (q.USD - b.AvgCost) * b.Total()
		}
	}

	for _, p := range a.positions {
		q, err := quotes.Quote(p.Pair.Base)
		if err != nil || q.USD <= 0 {
			continue
		}
		m.UnrealizedPnL += p.UnrealizedPnL(q.USD)
	}
	m.PortfolioValue += m.UnrealizedPnL

	return m
}
