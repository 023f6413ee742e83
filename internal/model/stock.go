package model

import "time"

// Stock is an entry of a user's watchlist.
type Stock struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Code         string    `json:"stockCode"`
	Name         string    `json:"stockName"`
	CurrentPrice float64   `json:"currentPrice"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StockPosition aggregates the open lots of a stock, marked to its current price.
type StockPosition struct {
	FloatingProfit        float64 `json:"floatingProfit"`
	FloatingProfitPercent float64 `json:"floatingProfitPercent"`
	HoldingQuantity       int64   `json:"holdingQuantity"`
	OpenLots              int     `json:"openLots"`
	PositionValue         float64 `json:"positionValue"`
	CostBasis             float64 `json:"costBasis"`
}

// StockSummary is a stock together with its position, as listed on the watchlist.
type StockSummary struct {
	Stock
	Position StockPosition `json:"position"`
}

// StockLimit describes how many stocks a user holds and may hold.
// Limit is UnlimitedStocks when no cap applies.
type StockLimit struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

// PriceRefreshResponse reports the outcome of refreshing every stock price of a user.
// Success is true if at least one stock was updated.
type PriceRefreshResponse struct {
	Success       bool                `json:"success"`
	UpdatedStocks []UpdatedStock      `json:"updatedStocks"`
	Errors        []UpdatedStockError `json:"errors"`
	TotalUpdated  int                 `json:"totalUpdated"`
	TotalErrors   int                 `json:"totalErrors"`
}

// UpdatedStock is a stock whose price was refreshed.
type UpdatedStock struct {
	StockID string  `json:"stockId"`
	Code    string  `json:"stockCode"`
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
}

// UpdatedStockError is a stock whose price could not be refreshed.
type UpdatedStockError struct {
	StockID string `json:"stockId"`
	Code    string `json:"stockCode"`
	Symbol  string `json:"symbol"`
	Error   string `json:"error"`
}
