// Package pricing converts amounts between the chain's bridge asset
// and an arbitrary target asset via their independently supplied USD
// prices. Stateless; a fixed spread is applied asymmetrically so that
// buying the target costs more bridge-equivalent value and selling
// yields less.
package pricing

// DefaultSpread is the fixed conversion spread.
const DefaultSpread = 0.01

// BridgeToTarget converts an amount of the bridge asset into target
// units. A price or amount <= 0 yields 0 rather than an error; bad
// feed data must never corrupt a quote into a negative or infinite
// value.
func BridgeToTarget(amountBridge, bridgeUSD, targetUSD, spread float64, buy bool) float64 {
	if amountBridge <= 0 || bridgeUSD <= 0 || targetUSD <= 0 {
		return 0
	}
	raw := amountBridge * bridgeUSD / targetUSD
	if buy {
		return raw / (1 + spread)
	}
	return raw * (1 - spread)
}

// TargetToBridge is the exact inverse of BridgeToTarget for the same
// direction.
func TargetToBridge(amountTarget, bridgeUSD, targetUSD, spread float64, buy bool) float64 {
	if amountTarget <= 0 || bridgeUSD <= 0 || targetUSD <= 0 {
		return 0
	}
	raw := amountTarget * targetUSD / bridgeUSD
	if buy {
		return raw * (1 + spread)
	}
	return raw / (1 - spread)
}
