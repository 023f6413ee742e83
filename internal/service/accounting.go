package service

import (
	"math"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// Commission schedule used to suggest a fee. The suggestion is never enforced.
const (
	feeRate = 0.0003
	minFee  = 5.0
)

// DefaultFee suggests the commission for an order: 0.03% of its value, at least 5.
func DefaultFee(price float64, quantity int64) float64 {
	return math.Max(price*float64(quantity)*feeRate, minFee)
}

// RealizedProfit computes the profit a sell realized against its lot.
// The lot's fee is prorated by the share of the lot sold; the sell's fee is charged in full.
// The percentage is relative to the cost of the sold shares.
func RealizedProfit(buy, sell model.Transaction) (profit, percent float64) {
	qty := float64(sell.Quantity)
	cost := buy.Price * qty
	buyFee := buy.Fee * (qty / float64(buy.Quantity))
	profit = sell.Price*qty - cost - buyFee - sell.Fee
	if cost != 0 {
		percent = profit / cost * 100
	}
	return profit, percent
}

// FloatingProfit marks the unsold shares of a lot to currentPrice, net of the
// lot fee prorated to those shares. Closed lots float nothing.
func FloatingProfit(buy model.Transaction, currentPrice float64) (profit, percent float64) {
	remaining := buy.RemainingShares()
	if remaining <= 0 {
		return 0, 0
	}
	rem := float64(remaining)
	cost := buy.Price * rem
	profit = (currentPrice-buy.Price)*rem - buy.Fee*(rem/float64(buy.Quantity))
	if cost != 0 {
		percent = profit / cost * 100
	}
	return profit, percent
}

// AggregateStockProfit sums the floating profit of every open or partial lot of a stock.
// Transactions that are not buys are ignored.
func AggregateStockProfit(stock model.Stock, transactions []model.Transaction) model.StockPosition {
	var pos model.StockPosition
	for _, t := range transactions {
		if !t.IsBuy() || t.RemainingShares() <= 0 {
			continue
		}
		profit, _ := FloatingProfit(t, stock.CurrentPrice)
		pos.FloatingProfit += profit
		pos.CostBasis += t.Price * float64(t.RemainingShares())
		pos.HoldingQuantity += t.RemainingShares()
		pos.OpenLots++
	}
	if pos.CostBasis != 0 {
		pos.FloatingProfitPercent = pos.FloatingProfit / pos.CostBasis * 100
	}
	pos.PositionValue = float64(pos.HoldingQuantity) * stock.CurrentPrice
	return pos
}

// StatusOf classifies a lot by its remaining shares.
func StatusOf(buy model.Transaction) model.LotStatus {
	remaining := buy.RemainingShares()
	switch {
	case remaining <= 0:
		return model.LotClosed
	case remaining < buy.Quantity:
		return model.LotPartial
	default:
		return model.LotOpen
	}
}

// HoldingDays counts the started days between a buy and a sell.
func HoldingDays(bought, sold time.Time) int {
	return int(math.Ceil(sold.Sub(bought).Hours() / 24))
}

// BuildLots pairs every buy of a stock with its sells. Lots keep the order of
// transactions; sells are listed oldest first.
func BuildLots(stock model.Stock, transactions []model.Transaction) []model.Lot {
	sellsByParent := relatedSells(transactions)

	lots := []model.Lot{}
	for _, buy := range transactions {
		if !buy.IsBuy() {
			continue
		}
		lot := model.Lot{
			Buy:    buy,
			Status: StatusOf(buy),
			Sells:  []model.RealizedSell{},
		}
		for _, sell := range sellsByParent[buy.ID] {
			profit, percent := RealizedProfit(buy, sell)
			lot.Sells = append(lot.Sells, model.RealizedSell{
				Transaction:   sell,
				Profit:        profit,
				ProfitPercent: percent,
				HoldingDays:   HoldingDays(buy.Timestamp, sell.Timestamp),
			})
			lot.RealizedProfit += profit
		}
		lot.FloatingProfit, lot.FloatingProfitPercent = FloatingProfit(buy, stock.CurrentPrice)
		lots = append(lots, lot)
	}
	return lots
}

// relatedSells groups sells by the lot they draw down, oldest first.
func relatedSells(transactions []model.Transaction) map[string][]model.Transaction {
	byParent := make(map[string][]model.Transaction)
	for _, t := range transactions {
		if t.IsBuy() || t.ParentBuyID == nil {
			continue
		}
		byParent[*t.ParentBuyID] = append(byParent[*t.ParentBuyID], t)
	}
	for id, sells := range byParent {
		sortByTimestamp(sells)
		byParent[id] = sells
	}
	return byParent
}
