package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/yahoo"
)

const (
	quoteTTL             = time.Minute
	quoteCleanupInterval = 5 * time.Minute
)

// PriceService refreshes stock prices from Yahoo Finance.
// Quotes are cached per symbol for a minute, so refreshing the same code for
// several users hits Yahoo once. Failed fetches are not retried.
type PriceService struct {
	stockRepo   *repository.StockRepository
	yahooClient yahoo.Client
	quotes      *cache.Cache
	concurrency int
}

// NewPriceService creates a new PriceService fetching at most concurrency quotes at a time.
func NewPriceService(stockRepo *repository.StockRepository, yahooClient yahoo.Client, concurrency int) *PriceService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PriceService{
		stockRepo:   stockRepo,
		yahooClient: yahooClient,
		quotes:      cache.New(quoteTTL, quoteCleanupInterval),
		concurrency: concurrency,
	}
}

func (s *PriceService) quote(ctx context.Context, symbol string) (float64, error) {
	if price, ok := s.quotes.Get(symbol); ok {
		return price.(float64), nil
	}
	price, err := s.yahooClient.LatestClose(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, apperrors.ErrQuoteNotFound
	}
	s.quotes.Set(symbol, price, cache.DefaultExpiration)
	return price, nil
}

// RefreshStock fetches the latest close of one of the user's stocks and stores it as its current price.
func (s *PriceService) RefreshStock(ctx context.Context, userID, stockID string) (model.Stock, error) {
	stock, err := s.stockRepo.GetStock(ctx, userID, stockID)
	if err != nil {
		return model.Stock{}, err
	}

	updated, err := s.refresh(ctx, stock)
	if err != nil {
		return model.Stock{}, err
	}
	return updated.stock, nil
}

type refreshed struct {
	stock  model.Stock
	symbol string
}

func (s *PriceService) refresh(ctx context.Context, stock model.Stock) (refreshed, error) {
	symbol := yahoo.Symbol(stock.Code)
	price, err := s.quote(ctx, symbol)
	if err != nil {
		return refreshed{symbol: symbol}, fmt.Errorf("%w: %s: %w", apperrors.ErrFailedToRefreshPrice, symbol, err)
	}

	now := time.Now().UTC()
	if err := s.stockRepo.UpdatePrice(ctx, stock.ID, price, now); err != nil {
		return refreshed{symbol: symbol}, err
	}
	stock.CurrentPrice = price
	stock.UpdatedAt = now
	return refreshed{stock: stock, symbol: symbol}, nil
}

// RefreshAll refreshes every stock of the user. A stock that fails is reported
// in the response and does not stop the others.
func (s *PriceService) RefreshAll(ctx context.Context, userID string) (model.PriceRefreshResponse, error) {
	stocks, err := s.stockRepo.GetStocks(ctx, userID)
	if err != nil {
		return model.PriceRefreshResponse{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveStocks, err)
	}
	return s.refreshStocks(ctx, stocks)
}

// RefreshEverything refreshes the stocks of every user. It is the job run by the scheduler.
func (s *PriceService) RefreshEverything(ctx context.Context) (model.PriceRefreshResponse, error) {
	stocks, err := s.stockRepo.GetAllStocks(ctx)
	if err != nil {
		return model.PriceRefreshResponse{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveStocks, err)
	}
	return s.refreshStocks(ctx, stocks)
}

func (s *PriceService) refreshStocks(ctx context.Context, stocks []model.Stock) (model.PriceRefreshResponse, error) {
	resp := model.PriceRefreshResponse{
		UpdatedStocks: []model.UpdatedStock{},
		Errors:        []model.UpdatedStockError{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, stock := range stocks {
		g.Go(func() error {
			result, err := s.refresh(gctx, stock)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				resp.Errors = append(resp.Errors, model.UpdatedStockError{
					StockID: stock.ID,
					Code:    stock.Code,
					Symbol:  result.symbol,
					Error:   err.Error(),
				})
				return nil
			}
			resp.UpdatedStocks = append(resp.UpdatedStocks, model.UpdatedStock{
				StockID: stock.ID,
				Code:    stock.Code,
				Symbol:  result.symbol,
				Price:   result.stock.CurrentPrice,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PriceRefreshResponse{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.PriceRefreshResponse{}, err
	}

	sort.Slice(resp.UpdatedStocks, func(i, j int) bool { return resp.UpdatedStocks[i].Code < resp.UpdatedStocks[j].Code })
	sort.Slice(resp.Errors, func(i, j int) bool { return resp.Errors[i].Code < resp.Errors[j].Code })

	resp.TotalUpdated = len(resp.UpdatedStocks)
	resp.TotalErrors = len(resp.Errors)
	resp.Success = resp.TotalUpdated > 0 || len(stocks) == 0
	return resp, nil
}

// StartScheduler runs RefreshEverything on the given cron spec until ctx is done.
// An empty cron expression disables scheduling and returns a nil scheduler.
func (s *PriceService) StartScheduler(ctx context.Context, spec string, loc *time.Location) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		logger := logging.FromContext(ctx)
		resp, err := s.RefreshEverything(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("scheduled price refresh failed", "error", err)
			}
			return
		}
		logger.Info("scheduled price refresh finished", "updated", resp.TotalUpdated, "errors", resp.TotalErrors)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid price refresh schedule %q: %w", spec, err)
	}

	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
