package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/Trade-Journal-Backend/internal/yahoo"
)

// MockYahooClient is a yahoo.Client returning preset prices instead of calling Yahoo.
// It is safe for concurrent use.
type MockYahooClient struct {
	mu sync.Mutex
	// Prices maps a Yahoo symbol (e.g. "600519.SS") to its latest close.
	Prices map[string]float64
	// Errors maps a Yahoo symbol to the error returned for it.
	Errors map[string]error
	// MockError, when set, is returned for every symbol.
	MockError error
	// QueryCount tracks how many times LatestClose was called.
	QueryCount int
}

// NewMockYahooClient creates a mock without prices; unknown symbols fail with yahoo.ErrNoData.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		Prices: map[string]float64{},
		Errors: map[string]error{},
	}
}

// LatestClose returns the configured price of symbol.
func (m *MockYahooClient) LatestClose(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	if m.MockError != nil {
		return 0, m.MockError
	}
	if err, ok := m.Errors[symbol]; ok {
		return 0, err
	}
	price, ok := m.Prices[symbol]
	if !ok {
		return 0, yahoo.ErrNoData
	}
	return price, nil
}

// Queries returns the number of LatestClose calls so far.
func (m *MockYahooClient) Queries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// WithPrice configures the close returned for a stock code.
func (m *MockYahooClient) WithPrice(code string, price float64) *MockYahooClient {
	m.Prices[yahoo.Symbol(code)] = price
	return m
}

// WithSymbolError configures the error returned for a stock code.
func (m *MockYahooClient) WithSymbolError(code string, err error) *MockYahooClient {
	m.Errors[yahoo.Symbol(code)] = err
	return m
}

// WithError configures the mock to fail every query with err.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}
