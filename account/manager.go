package account

import (
	"fmt"

	"github.com/mwyrick/paperdesk/internal/id"
	"github.com/mwyrick/paperdesk/journal"
	"github.com/mwyrick/paperdesk/market"
)

// CollateralSpec names the collateral for a new position. For quote
// collateral the margin is derived from entry price, size and
// leverage. For native collateral the caller supplies Margin in
// native units and USD, the collateral's USD price at open time; the
// engine does not re-derive either, since the caller already priced
// the margin against a live feed.
type CollateralSpec struct {
	Kind   CollateralKind
	Symbol string
	Margin float64
	USD    float64
}

type OpenPositionRequest struct {
	Pair       Pair
	Side       PositionSide
	Size       float64
	Leverage   float64
	EntryPrice float64
	Collateral CollateralSpec
}

// OpenPosition reserves margin and appends the position. Fails with
// InsufficientMargin when the collateral asset's available balance
// cannot cover the required margin.
func (a *Account) OpenPosition(req OpenPositionRequest) (Position, error) {
	if req.Size <= 0 || req.EntryPrice <= 0 || req.Leverage < 1 {
		return Position{}, fmt.Errorf("open position: size %.8f entry %.8f leverage %.2f: %w",
			req.Size, req.EntryPrice, req.Leverage, ErrInvalidQuantity)
	}
	if req.Side != Long && req.Side != Short {
		return Position{}, fmt.Errorf("open position: side %q: %w", req.Side, ErrInvalidState)
	}

	coll := Collateral{Kind: req.Collateral.Kind, Symbol: req.Collateral.Symbol}
	var margin float64
	switch req.Collateral.Kind {
	case CollateralQuote:
		margin = req.EntryPrice * req.Size / req.Leverage
		coll.EntryUSD = 1
	case CollateralNative:
		if req.Collateral.Margin <= 0 || req.Collateral.USD <= 0 {
			return Position{}, fmt.Errorf("open position: native collateral needs margin and price: %w", ErrInvalidQuantity)
		}
		margin = req.Collateral.Margin
		coll.EntryUSD = req.Collateral.USD
	default:
		return Position{}, fmt.Errorf("open position: collateral kind %q: %w", req.Collateral.Kind, ErrInvalidState)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ledger.Reserve(coll.Symbol, margin); err != nil {
		return Position{}, fmt.Errorf("open position: margin %.8f %s: %w", margin, coll.Symbol, ErrInsufficientMargin)
	}

	p := &Position{
		ID:               id.New(),
		Pair:             req.Pair,
		Side:             req.Side,
		Size:             req.Size,
		EntryPrice:       req.EntryPrice,
		Leverage:         req.Leverage,
		Margin:           margin,
		LiquidationPrice: liquidationPrice(req.Side, req.EntryPrice, req.Leverage),
		Collateral:       coll,
		OpenedAt:         now(),
	}
	a.positions = append(a.positions, p)
	return *p, nil
}

// ClosePosition settles an open position at closePrice and removes
// it. collateralRefUSD is the collateral asset's current USD price,
// needed to convert a native-collateral payout; it may be zero when
// the position's own pair is the collateral asset, in which case the
// close price is the reference. The full margin is released; the
// realized PnL is a settlement on top, clamped so available never
// goes negative. This operation is final.
func (a *Account) ClosePosition(positionID string, closePrice, collateralRefUSD float64) (float64, error) {
	if closePrice <= 0 {
		return 0, fmt.Errorf("close position %s: price %.8f: %w", positionID, closePrice, ErrInvalidQuantity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i, p := a.findPositionLocked(positionID)
	if p == nil {
		return 0, fmt.Errorf("close position %s: not found: %w", positionID, ErrInvalidState)
	}
	// A non-nil error with a non-zero pnl means the close settled but
	// the journal write failed.
	return a.closePositionLocked(i, p, closePrice, collateralRefUSD, "manual")
}

// closePositionLocked performs the ledger settlement shared by manual
// closes and the liquidation sweep. Returns the realized PnL in quote
// terms.
func (a *Account) closePositionLocked(i int, p *Position, closePrice, collateralRefUSD float64, reason string) (float64, error) {
	pnl := p.UnrealizedPnL(closePrice)

	// Realized PnL expressed in collateral units.
	pnlColl := pnl
	if p.Collateral.Kind == CollateralNative {
		ref := collateralRefUSD
		if ref <= 0 && p.Pair.Base == p.Collateral.Symbol {
			ref = closePrice
		}
		if ref <= 0 {
			return 0, fmt.Errorf("close position %s: no reference price for collateral %s: %w",
				p.ID, p.Collateral.Symbol, ErrInvalidQuantity)
		}
		pnlColl = pnl / ref
	}

	a.ledger.Release(p.Collateral.Symbol, p.Margin)
	a.ledger.Settle(p.Collateral.Symbol, pnlColl)

	a.positions = append(a.positions[:i], a.positions[i+1:]...)

	return pnl, a.journal.RecordPosition(journal.PositionRecord{
		PositionID:  p.ID,
		Pair:        p.Pair.String(),
		Side:        string(p.Side),
		Size:        p.Size,
		EntryPrice:  p.EntryPrice,
		ExitPrice:   closePrice,
		Leverage:    p.Leverage,
		Margin:      p.Margin,
		Collateral:  p.Collateral.Symbol,
		RealizedPnL: pnl,
		OpenTime:    p.OpenedAt,
		CloseTime:   now(),
		Reason:      reason,
	})
}

// CheckLiquidations closes every open position whose mark price has
// crossed its liquidation price, at the liquidation price itself.
// Marks come from the supplied quotes (base-asset USD price); a
// position with no usable quote is skipped rather than guessed at.
// Returns the ids of liquidated positions. The ledger settlement
// commits before the journal write, so liquidated ids are reported
// even when the returned error is non-nil; the error only means the
// journal missed a record.
func (a *Account) CheckLiquidations(quotes market.QuoteSource) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var closed []string
	var firstErr error
	for i := 0; i < len(a.positions); {
		p := a.positions[i]

		q, err := quotes.Quote(p.Pair.Base)
		if err != nil || q.USD <= 0 || !p.Liquidatable(q.USD) {
			i++
			continue
		}

		// Resolve the collateral reference here so closePositionLocked
		// cannot fail before it settles.
		ref := 0.0
		if p.Collateral.Kind == CollateralNative && p.Pair.Base != p.Collateral.Symbol {
			cq, err := quotes.Quote(p.Collateral.Symbol)
			if err != nil || cq.USD <= 0 {
				i++
				continue
			}
			ref = cq.USD
		}

		// The close removes index i, shifting the next position into
		// it; do not advance.
		_, err = a.closePositionLocked(i, p, p.LiquidationPrice, ref, "liquidation")
		closed = append(closed, p.ID)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return closed, firstErr
}
