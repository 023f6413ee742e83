package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/period"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
)

// AnalysisService builds the tag table and the weekly/monthly reviews.
type AnalysisService struct {
	transactionRepo *repository.TransactionRepository
	stockRepo       *repository.StockRepository
	location        *time.Location
	now             func() time.Time
}

// NewAnalysisService creates a new AnalysisService. Report windows are computed in loc.
func NewAnalysisService(
	transactionRepo *repository.TransactionRepository,
	stockRepo *repository.StockRepository,
	loc *time.Location,
) *AnalysisService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalysisService{
		transactionRepo: transactionRepo,
		stockRepo:       stockRepo,
		location:        loc,
		now:             time.Now,
	}
}

// Location returns the time zone report windows are computed in.
func (s *AnalysisService) Location() *time.Location {
	return s.location
}

// GetTagAnalysis aggregates the user's full history by reason tag, sorted by column.
func (s *AnalysisService) GetTagAnalysis(ctx context.Context, userID, column string, order SortOrder) (model.TagAnalysis, error) {
	transactions, err := s.transactionRepo.GetTransactionsByUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to load transactions for tag analysis", "userID", userID, "error", err)
		return model.TagAnalysis{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToBuildReport, err)
	}
	sortByTimestamp(transactions)

	if column == "" {
		column = "count"
	}
	stats, err := SortTagStats(AggregateTags(transactions), column, order)
	if err != nil {
		return model.TagAnalysis{}, err
	}
	return SummarizeTags(stats), nil
}

// LoadWindow returns the user's transactions dated inside w, plus the lots drawn
// down by in-window sells whatever their date. Each transaction appears once.
func (s *AnalysisService) LoadWindow(ctx context.Context, userID string, w period.Window) ([]model.Transaction, error) {
	inWindow, err := s.transactionRepo.GetTransactionsInRange(ctx, userID, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	loaded := make(map[string]struct{}, len(inWindow))
	for _, t := range inWindow {
		loaded[t.ID] = struct{}{}
	}

	var parentIDs []string
	for _, t := range inWindow {
		if t.IsBuy() || t.ParentBuyID == nil {
			continue
		}
		if _, ok := loaded[*t.ParentBuyID]; ok {
			continue
		}
		loaded[*t.ParentBuyID] = struct{}{}
		parentIDs = append(parentIDs, *t.ParentBuyID)
	}

	parents, err := s.transactionRepo.GetTransactionsByIDs(ctx, userID, parentIDs)
	if err != nil {
		return nil, err
	}
	return append(inWindow, parents...), nil
}

// GetPeriodReport builds the review of the week or month containing ref.
// A zero ref selects the current period.
func (s *AnalysisService) GetPeriodReport(ctx context.Context, userID string, p model.Period, ref time.Time) (model.PeriodReport, error) {
	if ref.IsZero() {
		ref = s.now()
	}
	w, err := period.For(p, ref, s.location)
	if err != nil {
		return model.PeriodReport{}, err
	}

	transactions, err := s.LoadWindow(ctx, userID, w)
	if err != nil {
		logging.FromContext(ctx).Error("failed to load period transactions", "userID", userID, "period", p, "error", err)
		return model.PeriodReport{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToBuildReport, err)
	}

	stocks, err := s.stockRepo.GetStocks(ctx, userID)
	if err != nil {
		return model.PeriodReport{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToBuildReport, err)
	}
	byID := make(map[string]model.Stock, len(stocks))
	for _, st := range stocks {
		byID[st.ID] = st
	}

	return BuildPeriodReport(p, w, transactions, byID), nil
}

// BuildPeriodReport summarizes the transactions dated inside w.
//
// Sells inside the window are paired with their lot even when the lot was bought
// before the window, so trades straddling the boundary count in full. Investment
// and fees only cover transactions dated inside the window.
func BuildPeriodReport(p model.Period, w period.Window, transactions []model.Transaction, stocks map[string]model.Stock) model.PeriodReport {
	report := model.PeriodReport{
		Period: p,
		Start:  w.Start,
		End:    w.End,
		Tags:   []model.PeriodTagStats{},
		Stocks: []model.PeriodStockActivity{},
	}

	buys := make(map[string]model.Transaction)
	var inWindow []model.Transaction
	for _, t := range transactions {
		if t.IsBuy() {
			buys[t.ID] = t
		}
		if w.Contains(t.Timestamp) {
			inWindow = append(inWindow, t)
		}
	}
	// Newest first, like the transaction lists.
	slices.SortStableFunc(inWindow, func(a, b model.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	sum := &report.Summary
	tags := newPeriodTagFold()
	stockIndex := make(map[string]int)

	for _, t := range inWindow {
		sum.TotalTransactions++
		sum.TotalFees += t.Fee

		idx, ok := stockIndex[t.StockID]
		if !ok {
			idx = len(report.Stocks)
			stockIndex[t.StockID] = idx
			activity := model.PeriodStockActivity{StockID: t.StockID}
			if st, found := stocks[t.StockID]; found {
				activity.StockCode = st.Code
				activity.StockName = st.Name
			}
			report.Stocks = append(report.Stocks, activity)
		}
		report.Stocks[idx].Transactions = append(report.Stocks[idx].Transactions, t)

		if t.IsBuy() {
			sum.BuyCount++
			sum.TotalInvestment += t.Price * float64(t.Quantity)
			continue
		}

		sum.SellCount++
		if t.ParentBuyID == nil {
			continue
		}
		buy, found := buys[*t.ParentBuyID]
		if !found {
			continue
		}
		profit, _ := RealizedProfit(buy, t)
		sum.TotalProfit += profit
		sum.TotalTrades++
		if profit > 0 {
			sum.WinTrades++
		}
		for _, tag := range buy.BuyTags() {
			tags.trade(tag, profit)
		}
		for _, tag := range t.SellTags() {
			tags.trade(tag, profit)
		}
	}

	if sum.TotalTrades > 0 {
		sum.WinRate = float64(sum.WinTrades) / float64(sum.TotalTrades)
	}
	if sum.TotalInvestment > 0 {
		sum.ProfitRate = sum.TotalProfit / sum.TotalInvestment
	}
	sum.StockCount = len(report.Stocks)
	report.Tags = tags.result()
	return report
}

type periodTagFold struct {
	order []string
	stats map[string]model.PeriodTagStats
}

func newPeriodTagFold() *periodTagFold {
	return &periodTagFold{stats: make(map[string]model.PeriodTagStats)}
}

func (f *periodTagFold) trade(tag string, profit float64) {
	s, ok := f.stats[tag]
	if !ok {
		f.order = append(f.order, tag)
		s = model.PeriodTagStats{Tag: tag}
	}
	s.Count++
	s.Profit += profit
	s.Trades++
	if profit > 0 {
		s.Wins++
	}
	s.WinRate = float64(s.Wins) / float64(s.Trades)
	f.stats[tag] = s
}

func (f *periodTagFold) result() []model.PeriodTagStats {
	out := make([]model.PeriodTagStats, 0, len(f.order))
	for _, tag := range f.order {
		out = append(out, f.stats[tag])
	}
	return out
}
