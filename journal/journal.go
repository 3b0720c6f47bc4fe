package journal

import "time"

// FillRecord is written once per order fill (including partials).
type FillRecord struct {
	OrderID string
	Pair    string
	Side    string
	Qty     float64
	Price   float64
	Status  string
	Time    time.Time
}

// PositionRecord is written when a leveraged position closes, whether
// manually or by liquidation.
type PositionRecord struct {
	PositionID  string
	Pair        string
	Side        string
	Size        float64
	EntryPrice  float64
	ExitPrice   float64
	Leverage    float64
	Margin      float64
	Collateral  string
	RealizedPnL float64
	OpenTime    time.Time
	CloseTime   time.Time
	Reason      string
}

// EquitySnapshot captures account-wide aggregates at a point in time.
type EquitySnapshot struct {
	Time           time.Time
	PortfolioValue float64
	LockedValue    float64
	UnrealizedPnL  float64
	HoldingPnL     float64
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordPosition(PositionRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards every record. Useful for accounts that do not journal.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error         { return nil }
func (Nop) RecordPosition(PositionRecord) error { return nil }
func (Nop) RecordEquity(EquitySnapshot) error   { return nil }
func (Nop) Close() error                        { return nil }
