package account

import (
	"fmt"

	"github.com/mwyrick/paperdesk/internal/id"
	"github.com/mwyrick/paperdesk/journal"
)

// PlaceOrderRequest describes a new order. RefPrice supplies the
// reservation price for market buys, where no limit price exists; the
// caller prices it from a live quote.
type PlaceOrderRequest struct {
	Pair         Pair
	Side         Side
	Type         OrderType
	LimitPrice   float64
	TriggerPrice float64
	TriggerAbove bool
	Qty          float64
	RefPrice     float64
	Kind         OrderKind
	Leverage     float64
	TxID         string
}

// PlaceOrder reserves funds and appends the order. For buys the quote
// asset is reserved at qty * reservation price; for sells the base
// asset is reserved at qty. On any failure the order is never added.
func (a *Account) PlaceOrder(req PlaceOrderRequest) (Order, error) {
	if req.Qty <= 0 {
		return Order{}, fmt.Errorf("place order: qty %.8f: %w", req.Qty, ErrInvalidQuantity)
	}
	if req.Side != SideBuy && req.Side != SideSell {
		return Order{}, fmt.Errorf("place order: side %q: %w", req.Side, ErrInvalidState)
	}
	switch req.Type {
	case OrderTypeLimit:
		if req.LimitPrice <= 0 {
			return Order{}, fmt.Errorf("place order: limit price %.8f: %w", req.LimitPrice, ErrInvalidQuantity)
		}
	case OrderTypeStopLimit:
		if req.LimitPrice <= 0 || req.TriggerPrice <= 0 {
			return Order{}, fmt.Errorf("place order: stop-limit prices: %w", ErrInvalidQuantity)
		}
	case OrderTypeMarket:
		if req.Side == SideBuy && req.RefPrice <= 0 {
			return Order{}, fmt.Errorf("place order: market buy needs a reference price: %w", ErrInvalidQuantity)
		}
	default:
		return Order{}, fmt.Errorf("place order: type %q: %w", req.Type, ErrInvalidState)
	}

	reservePrice := req.LimitPrice
	if req.Type == OrderTypeMarket {
		reservePrice = req.RefPrice
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if req.Side == SideBuy {
		if err := a.ledger.Reserve(req.Pair.Quote, req.Qty*reservePrice); err != nil {
			return Order{}, fmt.Errorf("place order: %w", err)
		}
	} else {
		if err := a.ledger.Reserve(req.Pair.Base, req.Qty); err != nil {
			return Order{}, fmt.Errorf("place order: %w", err)
		}
	}

	o := &Order{
		ID:           id.New(),
		Pair:         req.Pair,
		Side:         req.Side,
		Type:         req.Type,
		Status:       OrderStatusOpen,
		LimitPrice:   req.LimitPrice,
		TriggerPrice: req.TriggerPrice,
		TriggerAbove: req.TriggerAbove,
		Triggered:    req.Type != OrderTypeStopLimit,
		Qty:          req.Qty,
		ReservePrice: reservePrice,
		Kind:         req.Kind,
		Leverage:     req.Leverage,
		TxID:         req.TxID,
		CreatedAt:    now(),
	}
	a.orders = append(a.orders, o)
	return *o, nil
}

// FillOrder applies an externally injected fill. The quantity is
// clamped to the order's remaining amount, so an over-sized or
// repeated fill notification settles at most the remainder and is a
// no-op past that; at-least-once fill delivery is safe.
func (a *Account) FillOrder(orderID string, fillPrice, fillQty float64) error {
	if fillPrice <= 0 {
		return fmt.Errorf("fill order %s: price %.8f: %w", orderID, fillPrice, ErrInvalidQuantity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	o := a.findOrderLocked(orderID)
	if o == nil {
		return fmt.Errorf("fill order %s: not found: %w", orderID, ErrInvalidState)
	}
	if !o.Fillable() {
		return fmt.Errorf("fill order %s: status %s: %w", orderID, o.Status, ErrInvalidState)
	}

	qty := fillQty
	if remaining := o.Remaining(); qty > remaining {
		qty = remaining
	}
	if qty <= 0 {
		return nil
	}

	if o.Side == SideBuy {
		// Undo the reservation for this slice at the placement price,
		// then settle the actual cost; a favorable fill refunds the
		// difference, an unfavorable one debits it.
		a.ledger.Release(o.Pair.Quote, qty*o.ReservePrice)
		a.ledger.Settle(o.Pair.Quote, -qty*fillPrice)
		a.ledger.AdjustAvgCost(o.Pair.Base, qty, fillPrice)
		a.ledger.Settle(o.Pair.Base, qty)
	} else {
		// The locked base is consumed, not returned; proceeds land in
		// the quote asset.
		a.ledger.Release(o.Pair.Base, qty)
		a.ledger.Settle(o.Pair.Base, -qty)
		a.ledger.Settle(o.Pair.Quote, qty*fillPrice)
	}

	o.FilledQty += qty
	o.LastFill = fillPrice
	if o.FilledQty >= o.Qty {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartial
	}

	return a.journal.RecordFill(journal.FillRecord{
		OrderID: o.ID,
		Pair:    o.Pair.String(),
		Side:    string(o.Side),
		Qty:     qty,
		Price:   fillPrice,
		Status:  string(o.Status),
		Time:    now(),
	})
}

// CancelOrder releases the unfilled remainder of a live order and
// marks it cancelled. A partially filled order keeps its filled
// quantity; the terminal status is still Cancelled. Cancelling a
// terminal order surfaces InvalidState.
func (a *Account) CancelOrder(orderID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	o := a.findOrderLocked(orderID)
	if o == nil {
		return fmt.Errorf("cancel order %s: not found: %w", orderID, ErrInvalidState)
	}
	if !o.Live() {
		return fmt.Errorf("cancel order %s: status %s: %w", orderID, o.Status, ErrInvalidState)
	}

	remaining := o.Remaining()
	if remaining > 0 {
		if o.Side == SideBuy {
			a.ledger.Release(o.Pair.Quote, remaining*o.ReservePrice)
		} else {
			a.ledger.Release(o.Pair.Base, remaining)
		}
	}
	o.Status = OrderStatusCancelled
	return nil
}

// TriggerOrders promotes every untriggered stop-limit on the pair
// whose trigger condition the mark price satisfies. Triggered orders
// become fillable limit orders; nothing settles here. Returns the ids
// that triggered.
func (a *Account) TriggerOrders(pair Pair, mark float64) []string {
	if mark <= 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var triggered []string
	for _, o := range a.orders {
		if o.Pair == pair && o.shouldTrigger(mark) {
			o.Triggered = true
			triggered = append(triggered, o.ID)
		}
	}
	return triggered
}
