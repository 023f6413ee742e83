package model

import "time"

// TransactionType distinguishes buy lots from sells.
type TransactionType string

// Transaction kinds.
const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Reason is the free-text rationale attached to a buy or a sell.
type Reason struct {
	Tags []string `json:"tags"`
	Note string   `json:"note"`
}

// Transaction is a buy or sell record.
//
// A buy is a lot: Remaining holds the shares not yet sold and ParentBuyID is nil.
// A sell draws down exactly one lot referenced by ParentBuyID; Remaining is nil.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	StockID     string          `json:"stockId"`
	Type        TransactionType `json:"type"`
	Quantity    int64           `json:"quantity"`
	Price       float64         `json:"price"`
	Fee         float64         `json:"fee"`
	Timestamp   time.Time       `json:"timestamp"`
	ParentBuyID *string         `json:"parentBuyId,omitempty"`
	Remaining   *int64          `json:"remaining,omitempty"`
	BuyReason   *Reason         `json:"buyReason,omitempty"`
	SellReason  *Reason         `json:"sellReason,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// IsBuy reports whether the transaction is a lot.
func (t Transaction) IsBuy() bool {
	return t.Type == TransactionBuy
}

// RemainingShares returns the unsold shares of a lot, 0 for sells.
func (t Transaction) RemainingShares() int64 {
	if t.Remaining == nil {
		return 0
	}
	return *t.Remaining
}

// BuyTags returns the buy reason tags, or nil.
func (t Transaction) BuyTags() []string {
	if t.BuyReason == nil {
		return nil
	}
	return t.BuyReason.Tags
}

// SellTags returns the sell reason tags, or nil.
func (t Transaction) SellTags() []string {
	if t.SellReason == nil {
		return nil
	}
	return t.SellReason.Tags
}

// TransactionResponse is a transaction enriched with its stock for cross-stock listings.
type TransactionResponse struct {
	Transaction
	StockCode string `json:"stockCode"`
	StockName string `json:"stockName"`
}

// LotStatus is the sale state of a buy lot.
type LotStatus string

// Lot states.
const (
	LotOpen    LotStatus = "open"
	LotPartial LotStatus = "partial"
	LotClosed  LotStatus = "closed"
)

// RealizedSell is a sell paired with the profit it realized against its lot.
type RealizedSell struct {
	Transaction
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
	HoldingDays   int     `json:"holdingDays"`
}

// Lot is a buy with its related sells, realized profit and floating profit of the remainder.
type Lot struct {
	Buy                   Transaction    `json:"buy"`
	Status                LotStatus      `json:"status"`
	Sells                 []RealizedSell `json:"sells"`
	RealizedProfit        float64        `json:"realizedProfit"`
	FloatingProfit        float64        `json:"floatingProfit"`
	FloatingProfitPercent float64        `json:"floatingProfitPercent"`
}

// FeeQuote is the suggested commission for an order.
type FeeQuote struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Fee      float64 `json:"fee"`
}
