package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	fills      *csv.Writer
	positions  *csv.Writer
	equity     *csv.Writer
	ff, pf, ef *os.File
}

func NewCSV(fillsPath, positionsPath, equityPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	pf, err := os.Create(positionsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		return nil, err
	}

	fw := csv.NewWriter(ff)
	pw := csv.NewWriter(pf)
	ew := csv.NewWriter(ef)

	if err := fw.Write([]string{"order_id", "pair", "side", "qty", "price", "status", "time"}); err != nil {
		return nil, err
	}
	if err := pw.Write([]string{"position_id", "pair", "side", "size", "entry_price", "exit_price", "leverage", "margin", "collateral", "realized_pnl", "open_time", "close_time", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "portfolio_value", "locked_value", "unrealized_pnl", "holding_pnl"}); err != nil {
		return nil, err
	}

	for _, w := range []*csv.Writer{fw, pw, ew} {
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}

	return &CSVJournal{fills: fw, positions: pw, equity: ew, ff: ff, pf: pf, ef: ef}, nil
}

func (j *CSVJournal) RecordFill(r FillRecord) error {
	err := j.fills.Write([]string{
		r.OrderID,
		r.Pair,
		r.Side,
		f(r.Qty),
		f(r.Price),
		r.Status,
		r.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordPosition(r PositionRecord) error {
	err := j.positions.Write([]string{
		r.PositionID,
		r.Pair,
		r.Side,
		f(r.Size),
		f(r.EntryPrice),
		f(r.ExitPrice),
		f(r.Leverage),
		f(r.Margin),
		r.Collateral,
		f(r.RealizedPnL),
		r.OpenTime.Format(time.RFC3339),
		r.CloseTime.Format(time.RFC3339),
		r.Reason,
	})
	if err != nil {
		return err
	}
	j.positions.Flush()
	return j.positions.Error()
}

func (j *CSVJournal) RecordEquity(r EquitySnapshot) error {
	err := j.equity.Write([]string{
		r.Time.Format(time.RFC3339),
		f(r.PortfolioValue),
		f(r.LockedValue),
		f(r.UnrealizedPnL),
		f(r.HoldingPnL),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.fills, j.positions, j.equity} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	for _, fh := range []*os.File{j.ff, j.pf, j.ef} {
		if err := fh.Close(); err != nil {
			return err
		}
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
