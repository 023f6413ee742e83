package model

import "time"

// TagStats is the performance of a single reason tag across the full history.
type TagStats struct {
	Tag            string  `json:"tag"`
	Count          int     `json:"count"`
	AvgHoldingDays float64 `json:"avgHoldingDays"`
	TotalProfit    float64 `json:"totalProfit"`
	TotalTrades    int     `json:"totalTrades"`
	WinTrades      int     `json:"winTrades"`
	WinRate        float64 `json:"winRate"`
}

// TagAnalysis is the tag table plus its overall figures.
type TagAnalysis struct {
	Tags           []TagStats `json:"tags"`
	TotalProfit    float64    `json:"totalProfit"`
	AverageWinRate float64    `json:"averageWinRate"`
}

// Period is the length of a report window.
type Period string

// Report windows.
const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// PeriodSummary holds the totals of a report window.
// ProfitRate is TotalProfit relative to TotalInvestment, as a fraction.
type PeriodSummary struct {
	TotalTransactions int     `json:"totalTransactions"`
	BuyCount          int     `json:"buyCount"`
	SellCount         int     `json:"sellCount"`
	TotalProfit       float64 `json:"totalProfit"`
	TotalTrades       int     `json:"totalTrades"`
	WinTrades         int     `json:"winTrades"`
	WinRate           float64 `json:"winRate"`
	TotalInvestment   float64 `json:"totalInvestment"`
	TotalFees         float64 `json:"totalFees"`
	ProfitRate        float64 `json:"profitRate"`
	StockCount        int     `json:"stockCount"`
}

// PeriodTagStats is the performance of a reason tag within a report window.
type PeriodTagStats struct {
	Tag     string  `json:"tag"`
	Count   int     `json:"count"`
	Profit  float64 `json:"profit"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

// PeriodStockActivity lists the in-window transactions of one stock.
type PeriodStockActivity struct {
	StockID      string        `json:"stockId"`
	StockCode    string        `json:"stockCode,omitempty"`
	StockName    string        `json:"stockName,omitempty"`
	Transactions []Transaction `json:"transactions"`
}

// PeriodReport is the weekly or monthly review.
type PeriodReport struct {
	Period  Period                `json:"period"`
	Start   time.Time             `json:"start"`
	End     time.Time             `json:"end"`
	Summary PeriodSummary         `json:"summary"`
	Tags    []PeriodTagStats      `json:"tags"`
	Stocks  []PeriodStockActivity `json:"stocks"`
}
