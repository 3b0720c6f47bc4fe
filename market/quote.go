package market

import (
	"errors"
	"sync"
	"time"
)

// Quote is a point-in-time USD quote for one asset symbol, as supplied
// by an external market-data feed. The engine never fetches quotes
// itself; callers pass them into each operation.
type Quote struct {
	Symbol    string
	USD       float64
	Change24h float64
	Time      time.Time
}

type QuoteSource interface {
	Quote(symbol string) (Quote, error)
}

var ErrQuoteNotFound = errors.New("quote not found")

type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]Quote)}
}

func (qs *QuoteStore) Set(q Quote) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.quotes[q.Symbol] = q
}

func (qs *QuoteStore) Quote(symbol string) (Quote, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	q, ok := qs.quotes[symbol]
	if !ok {
		return Quote{}, ErrQuoteNotFound
	}
	return q, nil
}
