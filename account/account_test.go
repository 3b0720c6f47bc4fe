package account

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwyrick/paperdesk/journal"
	"github.com/mwyrick/paperdesk/market"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	a := New(Params{ID: "acct-1"})
	assert.Equal(t, "acct-1", a.ID())
	assert.Equal(t, ModeDemo, a.Mode())
	assert.True(t, IsDemo(a.Mode()))
	assert.False(t, IsDemo(ModeLive))
}

func TestSetModeResets(t *testing.T) {
	a := New(Params{
		ID: "acct-1",
		StartingBalances: map[Mode]map[string]float64{
			ModeDemo: {"USDT": 10000},
			ModeLive: {"USDT": 0},
		},
	})

	o := placeLimit(t, a, pairBase, SideBuy, 100, 1)
	require.NoError(t, a.FillOrder(o.ID, 100, 1))
	openQuoteLong(t, a, 100, 1, 2)
	_, err := a.Deposit("USDT", 25, "tx-1")
	require.NoError(t, err)
	require.NotEmpty(t, a.Orders())
	require.NotEmpty(t, a.Positions())

	require.NoError(t, a.SetMode(ModeLive))

	// Everything demo is gone; live starts from its own defaults.
	assert.Equal(t, ModeLive, a.Mode())
	assert.Empty(t, a.Orders())
	assert.Empty(t, a.Positions())
	assert.Empty(t, a.Transfers())
	assert.Zero(t, a.Balance("USDT").Available)
	assert.Zero(t, a.Balance("BASE").Available)

	require.NoError(t, a.SetMode(ModeDemo))
	assert.InDelta(t, 10000, a.Balance("USDT").Available, 1e-9)

	assert.ErrorIs(t, a.SetMode("paper"), ErrInvalidState)
}

func TestDepositWithdraw(t *testing.T) {
	a := newTestAccount(t, map[string]float64{"USDT": 100})

	d, err := a.Deposit("TON", 40, "tx-dep")
	require.NoError(t, err)
	assert.Equal(t, "tx-dep", d.TxID)
	assert.InDelta(t, 40, a.Balance("TON").Available, 1e-9)

	w, err := a.Withdraw("TON", 15, "tx-wd")
	require.NoError(t, err)
	assert.InDelta(t, -15, w.Amount, 1e-9)
	assert.InDelta(t, 25, a.Balance("TON").Available, 1e-9)

	transfers := a.Transfers()
	require.Len(t, transfers, 2)
	assert.InDelta(t, 40, transfers[0].Amount, 1e-9)

	_, err = a.Withdraw("TON", 100, "tx-over")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = a.Deposit("TON", 0, "tx-zero")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Locked funds are not withdrawable.
	placeLimit(t, a, pairBase, SideBuy, 100, 1)
	_, err = a.Withdraw("USDT", 50, "tx-locked")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestMetrics(t *testing.T) {
	a := newTestAccount(t, map[string]float64{"USDT": 1000})

	// Buy 2 BASE at 100, lock another 100 in a resting order, and run a
	// 2x long from 50.
	o := placeLimit(t, a, pairBase, SideBuy, 100, 2)
	require.NoError(t, a.FillOrder(o.ID, 100, 2))
	placeLimit(t, a, pairBase, SideBuy, 100, 1)
	_, err := a.OpenPosition(OpenPositionRequest{
		Pair:       Pair{Base: "TON", Quote: "USDT"},
		Side:       Long,
		Size:       10,
		Leverage:   2,
		EntryPrice: 50,
		Collateral: CollateralSpec{Kind: CollateralQuote, Symbol: "USDT"},
	})
	require.NoError(t, err)

	quotes := market.NewQuoteStore()
	quotes.Set(market.Quote{Symbol: "USDT", USD: 1})
	quotes.Set(market.Quote{Symbol: "BASE", USD: 110})
	quotes.Set(market.Quote{Symbol: "TON", USD: 55})

	m := a.Metrics(quotes)

	// USDT total 800 (450 available, 100 order lock, 250 position
	// margin); BASE 2 at 110; TON long up (55-50)*10 = 50.
	assert.InDelta(t, 50, m.UnrealizedPnL, 1e-9)
	assert.InDelta(t, 800*1+2*110+50, m.PortfolioValue, 1e-9)
	assert.InDelta(t, 350*1, m.LockedValue, 1e-9)
	// Holding PnL on the 2 BASE bought at 100.
	assert.InDelta(t, (110-100)*2, m.HoldingPnL, 1e-9)
}

func TestMetricsSkipsMissingQuotes(t *testing.T) {
	a := newTestAccount(t, map[string]float64{"USDT": 1000, "XYZ": 5})

	quotes := market.NewQuoteStore()
	quotes.Set(market.Quote{Symbol: "USDT", USD: 1})

	m := a.Metrics(quotes)
	assert.InDelta(t, 1000, m.PortfolioValue, 1e-9)
	assert.Zero(t, m.UnrealizedPnL)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	a := newTestAccount(t, map[string]float64{"USDT": 1000, "TON": 50})

	o := placeLimit(t, a, pairBase, SideBuy, 100, 2)
	require.NoError(t, a.FillOrder(o.ID, 95, 1))
	placeLimit(t, a, Pair{Base: "TON", Quote: "USDT"}, SideSell, 3, 10)
	openQuoteLong(t, a, 100, 1, 4)

	snap := a.Snapshot()
	assert.Equal(t, "acct-1", snap.AccountID)
	assert.Equal(t, "demo", snap.Mode)

	b := New(Params{ID: "acct-1"})
	require.NoError(t, b.Restore(snap))

	assert.Equal(t, a.Mode(), b.Mode())
	assert.Equal(t, a.Orders(), b.Orders())
	assert.Equal(t, a.Positions(), b.Positions())
	for _, sym := range []string{"USDT", "TON", "BASE"} {
		assert.Equal(t, a.Balance(sym), b.Balance(sym), sym)
	}

	// The restored account is fully operational.
	orders := b.Orders()
	require.NoError(t, b.FillOrder(orders[0].ID, 95, 1))
	assert.Equal(t, OrderStatusFilled, b.Orders()[0].Status)
}

// Every enum a snapshot row carries is validated on restore; one
// corrupted value anywhere rejects the whole snapshot.
func TestRestoreRejectsInvalid(t *testing.T) {
	a := newTestAccount(t, map[string]float64{"USDT": 1000})
	placeLimit(t, a, pairBase, SideBuy, 10, 1)
	openQuoteLong(t, a, 100, 1, 2)

	tests := []struct {
		name   string
		mutate func(*journal.Snapshot)
	}{
		{"bad mode", func(s *journal.Snapshot) { s.Mode = "paper" }},
		{"bad order status", func(s *journal.Snapshot) { s.Orders[0].Status = "exploded" }},
		{"bad order side", func(s *journal.Snapshot) { s.Orders[0].Side = "hold" }},
		{"bad order type", func(s *journal.Snapshot) { s.Orders[0].Type = "iceberg" }},
		{"bad order kind", func(s *journal.Snapshot) { s.Orders[0].Kind = "margin" }},
		{"bad position side", func(s *journal.Snapshot) { s.Positions[0].Side = "sideways" }},
		{"bad collateral kind", func(s *journal.Snapshot) { s.Positions[0].CollateralKind = "wrapped" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := a.Snapshot()
			tt.mutate(&snap)
			assert.ErrorIs(t, New(Params{}).Restore(snap), ErrInvalidState)
		})
	}
}

// Concurrent operations never corrupt invariants: the mutex serializes
// everything, so funds stay conserved and non-negative.
func TestConcurrentOperations(t *testing.T) {
	a := newTestAccount(t, map[string]float64{"USDT": 100000})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				o, err := a.PlaceOrder(PlaceOrderRequest{
					Pair: pairBase, Side: SideBuy, Type: OrderTypeLimit, LimitPrice: 10, Qty: 1,
				})
				if err != nil {
					continue
				}
				if j%2 == 0 {
					_ = a.FillOrder(o.ID, 10, 1)
				} else {
					_ = a.CancelOrder(o.ID)
				}
			}
		}()
	}
	wg.Wait()

	usdt := a.Balance("USDT")
	base := a.Balance("BASE")
	assert.GreaterOrEqual(t, usdt.Available, 0.0)
	assert.Zero(t, usdt.Locked)
	// Every filled unit cost exactly 10 USDT.
	assert.InDelta(t, 100000, usdt.Available+usdt.Locked+base.Available*10, 1e-6)
}
