package account

import "time"

type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string { return p.Base + "/" + p.Quote }

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderType string

const (
	OrderTypeLimit     OrderType = "limit"
	OrderTypeMarket    OrderType = "market"
	OrderTypeStopLimit OrderType = "stop_limit"
)

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusPartial   OrderStatus = "partially_filled"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderKind tags which venue an order belongs to. It is display
// metadata; settlement is identical for both.
type OrderKind string

const (
	KindSpot      OrderKind = "spot"
	KindLeveraged OrderKind = "leveraged"
)

// Order is a resting or historical order on this account. Settlement
// for buys is two-phase: funds are reserved at ReservePrice when the
// order is placed, then released and re-settled at the actual fill
// price when fills arrive.
type Order struct {
	ID           string
	Pair         Pair
	Side         Side
	Type         OrderType
	Status       OrderStatus
	LimitPrice   float64 // zero for market orders
	TriggerPrice float64 // stop-limit only
	TriggerAbove bool    // stop-limit: trigger when mark >= TriggerPrice
	Triggered    bool    // stop-limit becomes fillable once true
	Qty          float64
	FilledQty    float64
	LastFill     float64
	ReservePrice float64 // price the quote reservation was made at
	Kind         OrderKind
	Leverage     float64 // optional, leveraged kind only
	TxID         string  // opaque wallet receipt, never interpreted
	CreatedAt    time.Time
}

// Live reports whether the order can still receive fills or be
// cancelled.
func (o *Order) Live() bool {
	return o.Status == OrderStatusOpen || o.Status == OrderStatusPartial
}

func (o *Order) Remaining() float64 {
	return o.Qty - o.FilledQty
}

// Fillable reports whether a fill may settle against this order.
// Stop-limits must trigger first.
func (o *Order) Fillable() bool {
	if !o.Live() {
		return false
	}
	if o.Type == OrderTypeStopLimit && !o.Triggered {
		return false
	}
	return true
}

func (o *Order) shouldTrigger(mark float64) bool {
	if o.Type != OrderTypeStopLimit || o.Triggered || !o.Live() {
		return false
	}
	if o.TriggerAbove {
		return mark >= o.TriggerPrice
	}
	return mark <= o.TriggerPrice
}
