package market

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteStore(t *testing.T) {
	t.Parallel()

	qs := NewQuoteStore()

	_, err := qs.Quote("TON")
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	qs.Set(Quote{Symbol: "TON", USD: 2.50, Change24h: -1.2})
	q, err := qs.Quote("TON")
	require.NoError(t, err)
	assert.InDelta(t, 2.50, q.USD, 1e-9)

	// Later sets overwrite.
	qs.Set(Quote{Symbol: "TON", USD: 2.75})
	q, err = qs.Quote("TON")
	require.NoError(t, err)
	assert.InDelta(t, 2.75, q.USD, 1e-9)
}

func TestQuoteStoreConcurrent(t *testing.T) {
	t.Parallel()

	qs := NewQuoteStore()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				qs.Set(Quote{Symbol: "TON", USD: float64(j)})
				_, _ = qs.Quote("TON")
			}
		}()
	}
	wg.Wait()
}
