package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// tagFold accumulates one TagStats record per tag, remembering first-encounter order.
// Records are replaced, never mutated in place.
type tagFold struct {
	order []string
	stats map[string]model.TagStats
}

func newTagFold() *tagFold {
	return &tagFold{stats: make(map[string]model.TagStats)}
}

func (f *tagFold) get(tag string) model.TagStats {
	s, ok := f.stats[tag]
	if !ok {
		f.order = append(f.order, tag)
		s = model.TagStats{Tag: tag}
	}
	return s
}

// use counts a tag on a lot that has not been sold.
func (f *tagFold) use(tag string) {
	f.stats[tag] = withUse(f.get(tag))
}

// trade counts a tag on a completed buy/sell pair.
func (f *tagFold) trade(tag string, profit float64, holdingDays int) {
	f.stats[tag] = withTrade(f.get(tag), profit, holdingDays)
}

func (f *tagFold) result() []model.TagStats {
	out := make([]model.TagStats, 0, len(f.order))
	for _, tag := range f.order {
		out = append(out, f.stats[tag])
	}
	return out
}

func withUse(s model.TagStats) model.TagStats {
	s.Count++
	return s
}

func withTrade(s model.TagStats, profit float64, holdingDays int) model.TagStats {
	s.Count++
	s.AvgHoldingDays = (s.AvgHoldingDays*float64(s.Count-1) + float64(holdingDays)) / float64(s.Count)
	s.TotalProfit += profit
	s.TotalTrades++
	if profit > 0 {
		s.WinTrades++
	}
	s.WinRate = float64(s.WinTrades) / float64(s.TotalTrades)
	return s
}

// AggregateTags folds a user's history into per-tag statistics.
//
// Every buy tag counts once per related sell, each pair contributing its realized
// profit and holding days; a buy without sells only counts its tags' usage. Sell
// tags count once per sell against a known buy. Records come out in the order
// their tags were first encountered.
func AggregateTags(transactions []model.Transaction) []model.TagStats {
	sellsByParent := relatedSells(transactions)
	fold := newTagFold()

	for _, buy := range transactions {
		if !buy.IsBuy() {
			continue
		}
		sells := sellsByParent[buy.ID]

		for _, tag := range buy.BuyTags() {
			if len(sells) == 0 {
				fold.use(tag)
				continue
			}
			for _, sell := range sells {
				profit, _ := RealizedProfit(buy, sell)
				fold.trade(tag, profit, HoldingDays(buy.Timestamp, sell.Timestamp))
			}
		}

		for _, sell := range sells {
			profit, _ := RealizedProfit(buy, sell)
			days := HoldingDays(buy.Timestamp, sell.Timestamp)
			for _, tag := range sell.SellTags() {
				fold.trade(tag, profit, days)
			}
		}
	}
	return fold.result()
}

// SummarizeTags computes the total profit across tags and their mean win rate.
func SummarizeTags(stats []model.TagStats) model.TagAnalysis {
	analysis := model.TagAnalysis{Tags: stats}
	if analysis.Tags == nil {
		analysis.Tags = []model.TagStats{}
	}
	var winRates float64
	for _, s := range stats {
		analysis.TotalProfit += s.TotalProfit
		winRates += s.WinRate
	}
	if len(stats) > 0 {
		analysis.AverageWinRate = winRates / float64(len(stats))
	}
	return analysis
}

var tagColumns = map[string]func(model.TagStats) float64{
	"count":          func(s model.TagStats) float64 { return float64(s.Count) },
	"avgHoldingDays": func(s model.TagStats) float64 { return s.AvgHoldingDays },
	"totalProfit":    func(s model.TagStats) float64 { return s.TotalProfit },
	"winRate":        func(s model.TagStats) float64 { return s.WinRate },
	"totalTrades":    func(s model.TagStats) float64 { return float64(s.TotalTrades) },
	"winTrades":      func(s model.TagStats) float64 { return float64(s.WinTrades) },
}

// TagSortColumns lists the columns accepted by SortTagStats.
func TagSortColumns() []string {
	cols := []string{"tag"}
	for c := range tagColumns {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

// SortTagStats returns a copy of stats ordered by column. Ties keep their original order.
func SortTagStats(stats []model.TagStats, column string, order SortOrder) ([]model.TagStats, error) {
	sorted := slices.Clone(stats)
	if column == "tag" {
		slices.SortStableFunc(sorted, func(a, b model.TagStats) int {
			return compareOrdered(a.Tag, b.Tag, order)
		})
		return sorted, nil
	}

	value, ok := tagColumns[column]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort column %q, expected one of %s",
			apperrors.ErrInvalidSortColumn, column, strings.Join(TagSortColumns(), ", "))
	}
	slices.SortStableFunc(sorted, func(a, b model.TagStats) int {
		return compareOrdered(value(a), value(b), order)
	})
	return sorted, nil
}
