package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBridgeToTargetSpreadDirection(t *testing.T) {
	t.Parallel()

	// 10 bridge at $2 buys target at $1: 20 raw, less after the buy
	// spread; selling yields less than raw too.
	buy := BridgeToTarget(10, 2, 1, DefaultSpread, true)
	sell := BridgeToTarget(10, 2, 1, DefaultSpread, false)

	assert.InDelta(t, 20/1.01, buy, 1e-9)
	assert.InDelta(t, 20*0.99, sell, 1e-9)
	assert.Less(t, buy, 20.0)
	assert.Less(t, sell, 20.0)
}

func TestZeroOrNegativePriceYieldsZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		amount    float64
		bridgeUSD float64
		targetUSD float64
	}{
		{name: "zero_bridge", amount: 10, bridgeUSD: 0, targetUSD: 1},
		{name: "negative_bridge", amount: 10, bridgeUSD: -2, targetUSD: 1},
		{name: "zero_target", amount: 10, bridgeUSD: 2, targetUSD: 0},
		{name: "negative_target", amount: 10, bridgeUSD: 2, targetUSD: -1},
		{name: "zero_amount", amount: 0, bridgeUSD: 2, targetUSD: 1},
		{name: "negative_amount", amount: -10, bridgeUSD: 2, targetUSD: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, buy := range []bool{true, false} {
				assert.Zero(t, BridgeToTarget(tt.amount, tt.bridgeUSD, tt.targetUSD, DefaultSpread, buy))
				assert.Zero(t, TargetToBridge(tt.amount, tt.bridgeUSD, tt.targetUSD, DefaultSpread, buy))
			}
		})
	}
}

// Round-trip property: target_to_bridge(bridge_to_target(a)) == a for
// the same direction, within floating-point tolerance.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		amount := rng.Float64()*1e6 + 1e-6
		bridgeUSD := rng.Float64()*1e4 + 1e-6
		targetUSD := rng.Float64()*1e4 + 1e-6

		for _, buy := range []bool{true, false} {
			mid := BridgeToTarget(amount, bridgeUSD, targetUSD, DefaultSpread, buy)
			back := TargetToBridge(mid, bridgeUSD, targetUSD, DefaultSpread, buy)
			assert.InEpsilon(t, amount, back, 1e-9)
		}
	}
}
