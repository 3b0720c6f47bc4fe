package account

import (
	"fmt"

	"github.com/mwyrick/paperdesk/journal"
	"github.com/mwyrick/paperdesk/ledger"
)

// Snapshot exports the account state (ledger, orders, positions) in
// the journal's persisted shape. Transfers are journal records, not
// state, and are not part of the snapshot.
func (a *Account) Snapshot() journal.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := journal.Snapshot{
		AccountID: a.id,
		Mode:      string(a.mode),
		SavedAt:   now(),
	}

	for sym, b := range a.ledger.Snapshot() {
		s.Balances = append(s.Balances, journal.BalanceRow{
			Symbol:    sym,
			Available: b.Available,
			Locked:    b.Locked,
			AvgCost:   b.AvgCost,
		})
	}

	for _, o := range a.orders {
		s.Orders = append(s.Orders, journal.OrderRow{
			ID:           o.ID,
			Base:         o.Pair.Base,
			Quote:        o.Pair.Quote,
			Side:         string(o.Side),
			Type:         string(o.Type),
			Status:       string(o.Status),
			LimitPrice:   o.LimitPrice,
			TriggerPrice: o.TriggerPrice,
			TriggerAbove: o.TriggerAbove,
			Triggered:    o.Triggered,
			Qty:          o.Qty,
			FilledQty:    o.FilledQty,
			LastFill:     o.LastFill,
			ReservePrice: o.ReservePrice,
			Kind:         string(o.Kind),
			Leverage:     o.Leverage,
			TxID:         o.TxID,
			CreatedAt:    o.CreatedAt,
		})
	}

	for _, p := range a.positions {
		s.Positions = append(s.Positions, journal.PositionRow{
			ID:               p.ID,
			Base:             p.Pair.Base,
			Quote:            p.Pair.Quote,
			Side:             string(p.Side),
			Size:             p.Size,
			EntryPrice:       p.EntryPrice,
			Leverage:         p.Leverage,
			Margin:           p.Margin,
			LiquidationPrice: p.LiquidationPrice,
			CollateralKind:   string(p.Collateral.Kind),
			CollateralSymbol: p.Collateral.Symbol,
			CollateralUSD:    p.Collateral.EntryUSD,
			OpenedAt:         p.OpenedAt,
		})
	}

	return s
}

// Restore replaces the account state from a loaded snapshot. The
// snapshot should already have been through its repair pass; anything
// still invalid (unknown enums, negative quantities) is rejected.
func (a *Account) Restore(s journal.Snapshot) error {
	balances := make(map[string]ledger.Balance, len(s.Balances))
	for _, b := range s.Balances {
		balances[b.Symbol] = ledger.Balance{
			Available: b.Available,
			Locked:    b.Locked,
			AvgCost:   b.AvgCost,
		}
	}

	orders := make([]*Order, 0, len(s.Orders))
	for _, row := range s.Orders {
		status := OrderStatus(row.Status)
		switch status {
		case OrderStatusOpen, OrderStatusPartial, OrderStatusFilled, OrderStatusCancelled:
		default:
			return fmt.Errorf("restore: order %s status %q: %w", row.ID, row.Status, ErrInvalidState)
		}
		side := Side(row.Side)
		if side != SideBuy && side != SideSell {
			return fmt.Errorf("restore: order %s side %q: %w", row.ID, row.Side, ErrInvalidState)
		}
		typ := OrderType(row.Type)
		switch typ {
		case OrderTypeLimit, OrderTypeMarket, OrderTypeStopLimit:
		default:
			return fmt.Errorf("restore: order %s type %q: %w", row.ID, row.Type, ErrInvalidState)
		}
		kind := OrderKind(row.Kind)
		switch kind {
		case KindSpot, KindLeveraged, "":
		default:
			return fmt.Errorf("restore: order %s kind %q: %w", row.ID, row.Kind, ErrInvalidState)
		}
		orders = append(orders, &Order{
			ID:           row.ID,
			Pair:         Pair{Base: row.Base, Quote: row.Quote},
			Side:         side,
			Type:         typ,
			Status:       status,
			LimitPrice:   row.LimitPrice,
			TriggerPrice: row.TriggerPrice,
			TriggerAbove: row.TriggerAbove,
			Triggered:    row.Triggered,
			Qty:          row.Qty,
			FilledQty:    row.FilledQty,
			LastFill:     row.LastFill,
			ReservePrice: row.ReservePrice,
			Kind:         kind,
			Leverage:     row.Leverage,
			TxID:         row.TxID,
			CreatedAt:    row.CreatedAt,
		})
	}

	positions := make([]*Position, 0, len(s.Positions))
	for _, row := range s.Positions {
		side := PositionSide(row.Side)
		if side != Long && side != Short {
			return fmt.Errorf("restore: position %s side %q: %w", row.ID, row.Side, ErrInvalidState)
		}
		collKind := CollateralKind(row.CollateralKind)
		if collKind != CollateralQuote && collKind != CollateralNative {
			return fmt.Errorf("restore: position %s collateral kind %q: %w", row.ID, row.CollateralKind, ErrInvalidState)
		}
		positions = append(positions, &Position{
			ID:               row.ID,
			Pair:             Pair{Base: row.Base, Quote: row.Quote},
			Side:             side,
			Size:             row.Size,
			EntryPrice:       row.EntryPrice,
			Leverage:         row.Leverage,
			Margin:           row.Margin,
			LiquidationPrice: row.LiquidationPrice,
			Collateral: Collateral{
				Kind:     collKind,
				Symbol:   row.CollateralSymbol,
				EntryUSD: row.CollateralUSD,
			},
			OpenedAt: row.OpenedAt,
		})
	}

	mode := Mode(s.Mode)
	if mode != ModeDemo && mode != ModeLive {
		return fmt.Errorf("restore: mode %q: %w", s.Mode, ErrInvalidState)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ledger.Restore(balances); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	a.mode = mode
	a.orders = orders
	a.positions = positions
	return nil
}
