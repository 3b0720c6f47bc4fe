package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(order_id, pair, side, qty, price, status, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.OrderID, f.Pair, f.Side, f.Qty, f.Price, f.Status, f.Time,
	)
	return err
}

func (j *SQLite) RecordPosition(p PositionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO positions
		(position_id, pair, side, size, entry_price, exit_price, leverage, margin, collateral, realized_pnl, open_time, close_time, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PositionID, p.Pair, p.Side, p.Size, p.EntryPrice, p.ExitPrice,
		p.Leverage, p.Margin, p.Collateral, p.RealizedPnL, p.OpenTime, p.CloseTime, p.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, portfolio_value, locked_value, unrealized_pnl, holding_pnl)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.PortfolioValue, e.LockedValue, e.UnrealizedPnL, e.HoldingPnL,
	)
	return err
}

// SaveSnapshot replaces the persisted state for the snapshot's account
// in one transaction.
func (j *SQLite) SaveSnapshot(s Snapshot) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshot_account", "snapshot_balances", "snapshot_orders", "snapshot_positions"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE account_id = ?", s.AccountID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	if _, err := tx.Exec(`
		INSERT INTO snapshot_account (account_id, mode, saved_at) VALUES (?, ?, ?)`,
		s.AccountID, s.Mode, savedAt,
	); err != nil {
		return err
	}

	for _, b := range s.Balances {
		if _, err := tx.Exec(`
			INSERT INTO snapshot_balances (account_id, symbol, available, locked, avg_cost)
			VALUES (?, ?, ?, ?, ?)`,
			s.AccountID, b.Symbol, b.Available, b.Locked, b.AvgCost,
		); err != nil {
			return err
		}
	}

	for _, o := range s.Orders {
		if _, err := tx.Exec(`
			INSERT INTO snapshot_orders
			(account_id, id, base, quote, side, type, status, limit_price, trigger_price, trigger_above, triggered, qty, filled_qty, last_fill, reserve_price, kind, leverage, tx_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.AccountID, o.ID, o.Base, o.Quote, o.Side, o.Type, o.Status,
			o.LimitPrice, o.TriggerPrice, o.TriggerAbove, o.Triggered,
			o.Qty, o.FilledQty, o.LastFill, o.ReservePrice, o.Kind, o.Leverage, o.TxID, o.CreatedAt,
		); err != nil {
			return err
		}
	}

	for _, p := range s.Positions {
		if _, err := tx.Exec(`
			INSERT INTO snapshot_positions
			(account_id, id, base, quote, side, size, entry_price, leverage, margin, liquidation_price, collateral_kind, collateral_symbol, collateral_usd, opened_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.AccountID, p.ID, p.Base, p.Quote, p.Side, p.Size, p.EntryPrice,
			p.Leverage, p.Margin, p.LiquidationPrice,
			p.CollateralKind, p.CollateralSymbol, p.CollateralUSD, p.OpenedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSnapshot reads the persisted state for accountID and runs the
// repair pass over it. The returned report says whether anything was
// clamped; the snapshot itself is already repaired.
func (j *SQLite) LoadSnapshot(accountID string) (Snapshot, RepairReport, error) {
	s := Snapshot{AccountID: accountID}

	err := j.db.QueryRow(`
		SELECT mode, saved_at FROM snapshot_account WHERE account_id = ?`,
		accountID,
	).Scan(&s.Mode, &s.SavedAt)
	if err != nil {
		return Snapshot{}, RepairReport{}, fmt.Errorf("load snapshot %s: %w", accountID, err)
	}

	rows, err := j.db.Query(`
		SELECT symbol, available, locked, avg_cost FROM snapshot_balances WHERE account_id = ?`,
		accountID,
	)
	if err != nil {
		return Snapshot{}, RepairReport{}, err
	}
	for rows.Next() {
		var b BalanceRow
		if err := rows.Scan(&b.Symbol, &b.Available, &b.Locked, &b.AvgCost); err != nil {
			rows.Close()
			return Snapshot{}, RepairReport{}, err
		}
		s.Balances = append(s.Balances, b)
	}
	if err := closeRows(rows); err != nil {
		return Snapshot{}, RepairReport{}, err
	}

	rows, err = j.db.Query(`
		SELECT id, base, quote, side, type, status, limit_price, trigger_price, trigger_above, triggered, qty, filled_qty, last_fill, reserve_price, kind, leverage, tx_id, created_at
		FROM snapshot_orders WHERE account_id = ?`,
		accountID,
	)
	if err != nil {
		return Snapshot{}, RepairReport{}, err
	}
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.ID, &o.Base, &o.Quote, &o.Side, &o.Type, &o.Status,
			&o.LimitPrice, &o.TriggerPrice, &o.TriggerAbove, &o.Triggered,
			&o.Qty, &o.FilledQty, &o.LastFill, &o.ReservePrice, &o.Kind, &o.Leverage, &o.TxID, &o.CreatedAt,
		); err != nil {
			rows.Close()
			return Snapshot{}, RepairReport{}, err
		}
		s.Orders = append(s.Orders, o)
	}
	if err := closeRows(rows); err != nil {
		return Snapshot{}, RepairReport{}, err
	}

	rows, err = j.db.Query(`
		SELECT id, base, quote, side, size, entry_price, leverage, margin, liquidation_price, collateral_kind, collateral_symbol, collateral_usd, opened_at
		FROM snapshot_positions WHERE account_id = ?`,
		accountID,
	)
	if err != nil {
		return Snapshot{}, RepairReport{}, err
	}
	for rows.Next() {
		var p PositionRow
		if err := rows.Scan(&p.ID, &p.Base, &p.Quote, &p.Side, &p.Size, &p.EntryPrice,
			&p.Leverage, &p.Margin, &p.LiquidationPrice,
			&p.CollateralKind, &p.CollateralSymbol, &p.CollateralUSD, &p.OpenedAt,
		); err != nil {
			rows.Close()
			return Snapshot{}, RepairReport{}, err
		}
		s.Positions = append(s.Positions, p)
	}
	if err := closeRows(rows); err != nil {
		return Snapshot{}, RepairReport{}, err
	}

	rep := s.Repair()
	return s, rep, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
