package account

import "time"

type PositionSide string

const (
	Long  PositionSide = "long"
	Short PositionSide = "short"
)

type CollateralKind string

const (
	// CollateralQuote margins the position in the quote stablecoin;
	// margin units are quote units.
	CollateralQuote CollateralKind = "quote"
	// CollateralNative margins the position in the chain's native
	// coin; margin units are native units, priced by the caller at
	// open time.
	CollateralNative CollateralKind = "native"
)

// Collateral is fixed per position at open time. EntryUSD is the USD
// price of the collateral asset when the position opened (1 for quote
// collateral); ROE uses it so returns are measured against the margin
// as committed, not as currently valued.
type Collateral struct {
	Kind     CollateralKind
	Symbol   string
	EntryUSD float64
}

// Position is an open leveraged position. Unrealized PnL and ROE are
// never stored; they are recomputed from the mark price on demand.
type Position struct {
	ID               string
	Pair             Pair
	Side             PositionSide
	Size             float64 // base-asset units
	EntryPrice       float64
	Leverage         float64
	Margin           float64 // collateral units reserved in the ledger
	LiquidationPrice float64
	Collateral       Collateral
	OpenedAt         time.Time
}

// liquidationBuffer makes liquidation trigger slightly before the
// margin is fully consumed. UI-displayed liquidation prices depend on
// this exact value.
const liquidationBuffer = 0.005

func liquidationPrice(side PositionSide, entry, leverage float64) float64 {
	if side == Long {
		return entry * (1 - 1/leverage + liquidationBuffer)
	}
	return entry * (1 + 1/leverage - liquidationBuffer)
}

// UnrealizedPnL at the given mark price, always in quote (USD
// equivalent) terms regardless of the collateral asset.
func (p *Position) UnrealizedPnL(mark float64) float64 {
	if p.Side == Long {
		return (mark - p.EntryPrice) * p.Size
	}
	return (p.EntryPrice - mark) * p.Size
}

// marginQuote is the margin valued at its entry-time collateral price.
func (p *Position) marginQuote() float64 {
	return p.Margin * p.Collateral.EntryUSD
}

// ROE is unrealized PnL as a percentage of the margin committed at
// entry.
func (p *Position) ROE(mark float64) float64 {
	mq := p.marginQuote()
	if mq <= 0 {
		return 0
	}
	return p.UnrealizedPnL(mark) / mq * 100
}

// Liquidatable reports whether the mark price has crossed the
// liquidation price.
func (p *Position) Liquidatable(mark float64) bool {
	if mark <= 0 {
		return false
	}
	if p.Side == Long {
		return mark <= p.LiquidationPrice
	}
	return mark >= p.LiquidationPrice
}
