package journal

import (
	"fmt"
	"time"
)

// Snapshot is the persisted shape of one account: ledger balances plus
// open and historical orders and open positions. The account package
// exports into and restores from this shape; the journal owns how it
// is stored.
type Snapshot struct {
	AccountID string
	Mode      string
	Balances  []BalanceRow
	Orders    []OrderRow
	Positions []PositionRow
	SavedAt   time.Time
}

type BalanceRow struct {
	Symbol    string
	Available float64
	Locked    float64
	AvgCost   float64
}

type OrderRow struct {
	ID           string
	Base         string
	Quote        string
	Side         string
	Type         string
	Status       string
	LimitPrice   float64
	TriggerPrice float64
	TriggerAbove bool
	Triggered    bool
	Qty          float64
	FilledQty    float64
	LastFill     float64
	ReservePrice float64
	Kind         string
	Leverage     float64
	TxID         string
	CreatedAt    time.Time
}

type PositionRow struct {
	ID               string
	Base             string
	Quote            string
	Side             string
	Size             float64
	EntryPrice       float64
	Leverage         float64
	Margin           float64
	LiquidationPrice float64
	CollateralKind   string
	CollateralSymbol string
	CollateralUSD    float64
	OpenedAt         time.Time
}

// RepairReport lists every adjustment made while loading a persisted
// snapshot. Persisted state is never trusted blindly: negative
// quantities are clamped to zero, and each clamp is reported here so
// the caller can log or refuse it instead of the repair happening
// silently.
type RepairReport struct {
	Notes []string
}

func (r RepairReport) Repaired() bool { return len(r.Notes) > 0 }

func (r *RepairReport) notef(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// Repair clamps negative quantities in place and reports what changed.
func (s *Snapshot) Repair() RepairReport {
	var rep RepairReport
	for i := range s.Balances {
		b := &s.Balances[i]
		if b.Available < 0 {
			rep.notef("balance %s: available %.8f clamped to 0", b.Symbol, b.Available)
			b.Available = 0
		}
		if b.Locked < 0 {
			rep.notef("balance %s: locked %.8f clamped to 0", b.Symbol, b.Locked)
			b.Locked = 0
		}
	}
	for i := range s.Orders {
		o := &s.Orders[i]
		if o.Qty < 0 {
			rep.notef("order %s: qty %.8f clamped to 0", o.ID, o.Qty)
			o.Qty = 0
		}
		if o.FilledQty < 0 {
			rep.notef("order %s: filled qty %.8f clamped to 0", o.ID, o.FilledQty)
			o.FilledQty = 0
		}
		if o.FilledQty > o.Qty {
			rep.notef("order %s: filled qty %.8f exceeds qty %.8f, clamped", o.ID, o.FilledQty, o.Qty)
			o.FilledQty = o.Qty
		}
	}
	for i := range s.Positions {
		p := &s.Positions[i]
		if p.Size < 0 {
			rep.notef("position %s: size %.8f clamped to 0", p.ID, p.Size)
			p.Size = 0
		}
		if p.Margin < 0 {
			rep.notef("position %s: margin %.8f clamped to 0", p.ID, p.Margin)
			p.Margin = 0
		}
	}
	return rep
}
