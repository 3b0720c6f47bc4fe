package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReserveMovesAvailableToLocked(t *testing.T) {
	t.Parallel()

	l := New(map[string]float64{"USDT": 1000})
	assert.NoError(t, l.Reserve("USDT", 400))

	b := l.Get("USDT")
	assert.Equal(t, 600.0, b.Available)
	assert.Equal(t, 400.0, b.Locked)
}

func TestReserveInsufficient(t *testing.T) {
	t.Parallel()

	l := New(map[string]float64{"USDT": 100})
	err := l.Reserve("USDT", 100.01)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Failed reserve leaves the balance untouched.
	b := l.Get("USDT")
	assert.Equal(t, 100.0, b.Available)
	assert.Equal(t, 0.0, b.Locked)
}

func TestReserveInvalidQuantity(t *testing.T) {
	t.Parallel()

	l := New(map[string]float64{"USDT": 100})
	assert.ErrorIs(t, l.Reserve("USDT", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, l.Reserve("USDT", -5), ErrInvalidQuantity)
}

func TestReleaseClampsAtLocked(t *testing.T) {
	t.Parallel()

	l := New(map[string]float64{"TON": 10})
	assert.NoError(t, l.Reserve("TON", 4))

	// Releasing more than locked releases only what is locked.
	l.Release("TON", 100)

	b := l.Get("TON")
	assert.Equal(t, 10.0, b.Available)
	assert.Equal(t, 0.0, b.Locked)
}

func TestSettleClampsAtZero(t *testing.T) {
	t.Parallel()

	l := New(map[string]float64{"USDT": 50})
	l.Settle("USDT", -80)

	b := l.Get("USDT")
	assert.Equal(t, 0.0, b.Available)
}

func TestSettleCreatesSymbol(t *testing.T) {
	t.Parallel()

	l := New(nil)
	l.Settle("BTC", 1.5)
	assert.Equal(t, 1.5, l.Get("BTC").Available)
}

func TestAdjustAvgCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		holding  float64
		oldAvg   float64
		addedQty float64
		price    float64
		expected float64
	}{
		{name: "first_lot", holding: 0, oldAvg: 0, addedQty: 2, price: 100, expected: 100},
		{name: "averaging_up", holding: 2, oldAvg: 100, addedQty: 2, price: 200, expected: 150},
		{name: "averaging_down", holding: 1, oldAvg: 300, addedQty: 3, price: 100, expected: 150},
		{name: "tiny_add", holding: 10, oldAvg: 50, addedQty: 0.0001, price: 5000, expected: (10*50 + 0.0001*5000) / 10.0001},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := New(nil)
			if tt.holding > 0 {
				// Seed the prior holding the way a fill would: price
				// first, then credit.
				l.AdjustAvgCost("BASE", tt.holding, tt.oldAvg)
				l.Settle("BASE", tt.holding)
			}
			l.AdjustAvgCost("BASE", tt.addedQty, tt.price)
			assert.InDelta(t, tt.expected, l.Get("BASE").AvgCost, 1e-9)
		})
	}
}

func TestRestoreRejectsNegative(t *testing.T) {
	t.Parallel()

	l := New(nil)
	err := l.Restore(map[string]Balance{"USDT": {Available: -1}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

// Conservation and non-negativity over random operation sequences:
// available+locked changes only by net settle deltas, and neither
// bucket ever goes negative regardless of operation order.
func TestRandomOpSequenceInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		start := 1000.0
		l := New(map[string]float64{"X": start})
		settled := 0.0

		for op := 0; op < 400; op++ {
			qty := rng.Float64() * 300
			switch rng.Intn(3) {
			case 0:
				if err := l.Reserve("X", qty); err != nil {
					assert.ErrorIs(t, err, ErrInsufficientFunds)
				}
			case 1:
				l.Release("X", qty)
			case 2:
				delta := qty - 150 // signed
				before := l.Get("X").Available
				l.Settle("X", delta)
				after := l.Get("X").Available
				settled += after - before // actual applied delta, post-clamp
			}

			b := l.Get("X")
			if b.Available < 0 || b.Locked < 0 {
				t.Fatalf("run %d op %d: negative balance %+v", run, op, b)
			}
			if !approx(b.Total(), start+settled, 1e-6) {
				t.Fatalf("run %d op %d: conservation broken: total %.9f want %.9f",
					run, op, b.Total(), start+settled)
			}
		}
	}
}

func approx(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
