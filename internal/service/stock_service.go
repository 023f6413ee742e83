package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

// StockService handles the watchlist and the positions held in it.
type StockService struct {
	db              *sql.DB
	stockRepo       *repository.StockRepository
	transactionRepo *repository.TransactionRepository
}

// NewStockService creates a new StockService with the provided repository dependencies.
func NewStockService(
	db *sql.DB,
	stockRepo *repository.StockRepository,
	transactionRepo *repository.TransactionRepository,
) *StockService {
	return &StockService{
		db:              db,
		stockRepo:       stockRepo,
		transactionRepo: transactionRepo,
	}
}

// ListStocks returns the user's stocks with their positions, sorted by
// "name", "profit" (floating percent) or "position" (value).
func (s *StockService) ListStocks(ctx context.Context, userID, sortBy string, order SortOrder) ([]model.StockSummary, error) {
	stocks, err := s.stockRepo.GetStocks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveStocks, err)
	}
	transactions, err := s.transactionRepo.GetTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	byStock := make(map[string][]model.Transaction, len(stocks))
	for _, t := range transactions {
		byStock[t.StockID] = append(byStock[t.StockID], t)
	}

	summaries := make([]model.StockSummary, 0, len(stocks))
	for _, st := range stocks {
		summaries = append(summaries, model.StockSummary{
			Stock:    st,
			Position: AggregateStockProfit(st, byStock[st.ID]),
		})
	}
	return SortStocks(summaries, sortBy, order)
}

// SortStocks orders summaries in place and returns them. An empty column sorts by position.
func SortStocks(summaries []model.StockSummary, column string, order SortOrder) ([]model.StockSummary, error) {
	var cmpFn func(a, b model.StockSummary) int
	switch column {
	case "name":
		cmpFn = func(a, b model.StockSummary) int { return compareOrdered(a.Name, b.Name, order) }
	case "profit":
		cmpFn = func(a, b model.StockSummary) int {
			return compareOrdered(a.Position.FloatingProfitPercent, b.Position.FloatingProfitPercent, order)
		}
	case "position", "":
		cmpFn = func(a, b model.StockSummary) int {
			return compareOrdered(a.Position.PositionValue, b.Position.PositionValue, order)
		}
	default:
		return nil, fmt.Errorf("%w: unknown sort column %q, expected one of name, profit, position",
			apperrors.ErrInvalidSortColumn, column)
	}
	slices.SortStableFunc(summaries, cmpFn)
	return summaries, nil
}

// GetStock returns one of the user's stocks with its position.
func (s *StockService) GetStock(ctx context.Context, userID, id string) (model.StockSummary, error) {
	st, err := s.stockRepo.GetStock(ctx, userID, id)
	if err != nil {
		return model.StockSummary{}, err
	}
	transactions, err := s.transactionRepo.GetTransactionsByStock(ctx, userID, id)
	if err != nil {
		return model.StockSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return model.StockSummary{Stock: st, Position: AggregateStockProfit(st, transactions)}, nil
}

// CreateStock adds a stock to the user's watchlist.
// Fails with apperrors.ErrStockLimitReached when the user already holds their limit,
// and apperrors.ErrDuplicateEntry when the code is already listed.
func (s *StockService) CreateStock(ctx context.Context, user model.User, req request.CreateStockRequest) (model.Stock, error) {
	now := time.Now().UTC()
	st := model.Stock{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Code:         strings.ToUpper(validation.SanitizeText(req.Code)),
		Name:         validation.SanitizeText(req.Name),
		CurrentPrice: req.CurrentPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		stockRepo := s.stockRepo.WithTx(tx)

		if limit := StockLimit(user); limit != model.UnlimitedStocks {
			count, err := stockRepo.CountStocks(ctx, user.ID)
			if err != nil {
				return err
			}
			if count >= limit {
				return fmt.Errorf("%w: %d of %d", apperrors.ErrStockLimitReached, count, limit)
			}
		}
		return stockRepo.InsertStock(ctx, &st)
	})
	if err != nil {
		return model.Stock{}, err
	}

	logging.FromContext(ctx).Info("created stock", "userID", user.ID, "stockID", st.ID, "code", st.Code)
	return st, nil
}

// UpdateStock edits code, name or price of a stock.
func (s *StockService) UpdateStock(ctx context.Context, userID, id string, req request.UpdateStockRequest) (model.Stock, error) {
	st, err := s.stockRepo.GetStock(ctx, userID, id)
	if err != nil {
		return model.Stock{}, err
	}
	if req.Code != nil {
		st.Code = strings.ToUpper(validation.SanitizeText(*req.Code))
	}
	if req.Name != nil {
		st.Name = validation.SanitizeText(*req.Name)
	}
	if req.CurrentPrice != nil {
		st.CurrentPrice = *req.CurrentPrice
	}
	st.UpdatedAt = time.Now().UTC()

	if err := s.stockRepo.UpdateStock(ctx, &st); err != nil {
		return model.Stock{}, err
	}
	return st, nil
}

// UpdatePrice sets the current price of a stock by hand.
func (s *StockService) UpdatePrice(ctx context.Context, userID, id string, price float64) (model.Stock, error) {
	st, err := s.stockRepo.GetStock(ctx, userID, id)
	if err != nil {
		return model.Stock{}, err
	}
	st.CurrentPrice = price
	st.UpdatedAt = time.Now().UTC()
	if err := s.stockRepo.UpdatePrice(ctx, st.ID, st.CurrentPrice, st.UpdatedAt); err != nil {
		return model.Stock{}, err
	}
	return st, nil
}

// DeleteStock removes a stock and all its transactions.
func (s *StockService) DeleteStock(ctx context.Context, userID, id string) error {
	if err := s.stockRepo.DeleteStock(ctx, userID, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("deleted stock", "userID", userID, "stockID", id)
	return nil
}

// GetLots returns the lots of a stock, newest first, each with its sells and profits.
func (s *StockService) GetLots(ctx context.Context, userID, stockID string) ([]model.Lot, error) {
	st, err := s.stockRepo.GetStock(ctx, userID, stockID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetTransactionsByStock(ctx, userID, stockID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return BuildLots(st, transactions), nil
}
