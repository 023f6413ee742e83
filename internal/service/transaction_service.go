package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

// TransactionService records buys and sells and keeps every lot's remaining
// share count equal to its quantity minus the shares sold from it. Each
// operation touching more than one row runs in a single database transaction.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	stockRepo       *repository.StockRepository
	location        *time.Location
}

// NewTransactionService creates a new TransactionService. Local timestamps in
// requests are interpreted in loc.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	stockRepo *repository.StockRepository,
	loc *time.Location,
) *TransactionService {
	if loc == nil {
		loc = time.Local
	}
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		stockRepo:       stockRepo,
		location:        loc,
	}
}

// SuggestFee returns the default commission for an order.
func (s *TransactionService) SuggestFee(price float64, quantity int64) model.FeeQuote {
	return model.FeeQuote{Price: price, Quantity: quantity, Fee: DefaultFee(price, quantity)}
}

// GetTransactions returns every transaction of the user with its stock, newest first.
func (s *TransactionService) GetTransactions(ctx context.Context, userID string) ([]model.TransactionResponse, error) {
	transactions, err := s.transactionRepo.GetTransactionResponses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return transactions, nil
}

// GetTransactionsByStock returns the transactions of one of the user's stocks, newest first.
func (s *TransactionService) GetTransactionsByStock(ctx context.Context, userID, stockID string) ([]model.Transaction, error) {
	if _, err := s.stockRepo.GetStock(ctx, userID, stockID); err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetTransactionsByStock(ctx, userID, stockID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return transactions, nil
}

// GetTransaction retrieves a single transaction of the user.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, userID, id)
}

func reasonFrom(req *request.ReasonRequest) *model.Reason {
	if req == nil {
		return nil
	}
	return &model.Reason{
		Tags: validation.SanitizeTags(req.Tags),
		Note: validation.SanitizeText(req.Note),
	}
}

// CreateBuy records a new lot with all of its shares remaining.
// An incomplete request fails with a *validation.Error before anything is written.
func (s *TransactionService) CreateBuy(ctx context.Context, userID string, req request.CreateBuyRequest) (model.Transaction, error) {
	ts, err := validation.ValidateCreateBuy(req, s.location)
	if err != nil {
		return model.Transaction{}, err
	}

	remaining := req.Quantity
	buy := model.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		StockID:   req.StockID,
		Type:      model.TransactionBuy,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Fee:       *req.Fee,
		Timestamp: ts,
		Remaining: &remaining,
		BuyReason: reasonFrom(req.Reason),
		CreatedAt: time.Now().UTC(),
	}

	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.stockRepo.WithTx(tx).GetStock(ctx, userID, req.StockID); err != nil {
			return err
		}
		return s.transactionRepo.WithTx(tx).InsertTransaction(ctx, &buy)
	})
	if err != nil {
		return model.Transaction{}, err
	}

	logging.FromContext(ctx).Info("recorded buy", "userID", userID, "transactionID", buy.ID, "quantity", buy.Quantity)
	return buy, nil
}

// CreateSell records a sell against a lot and takes its shares off the lot.
//
// The lot must be a buy of the user holding at least the sold quantity, else
// apperrors.ErrInsufficientShares is returned and nothing is written. The
// decrement is guarded on the remaining count, so two sells racing for the
// same shares cannot both succeed.
func (s *TransactionService) CreateSell(ctx context.Context, userID string, req request.CreateSellRequest) (model.Transaction, error) {
	ts, err := validation.ValidateCreateSell(req, s.location)
	if err != nil {
		return model.Transaction{}, err
	}

	parentID := req.ParentBuyID
	sell := model.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        model.TransactionSell,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Fee:         *req.Fee,
		Timestamp:   ts,
		ParentBuyID: &parentID,
		SellReason:  reasonFrom(req.Reason),
		CreatedAt:   time.Now().UTC(),
	}

	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		transactionRepo := s.transactionRepo.WithTx(tx)

		parent, err := transactionRepo.GetTransaction(ctx, userID, parentID)
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			return apperrors.ErrParentBuyNotFound
		}
		if err != nil {
			return err
		}
		if !parent.IsBuy() {
			return apperrors.ErrParentNotBuy
		}
		if parent.RemainingShares() < req.Quantity {
			return fmt.Errorf("%w: %d remaining, %d requested",
				apperrors.ErrInsufficientShares, parent.RemainingShares(), req.Quantity)
		}

		sell.StockID = parent.StockID
		if err := transactionRepo.InsertTransaction(ctx, &sell); err != nil {
			return err
		}
		return transactionRepo.DecrementRemaining(ctx, parent.ID, req.Quantity)
	})
	if err != nil {
		return model.Transaction{}, err
	}

	logging.FromContext(ctx).Info("recorded sell", "userID", userID, "transactionID", sell.ID, "parentBuyID", parentID, "quantity", sell.Quantity)
	return sell, nil
}

// UpdateTransaction edits a buy or a sell under the same rules as creating it.
//
// A lot's quantity may not drop below the shares already sold from it; its
// remaining count follows the new quantity. A sell may grow up to the shares
// still available on its lot plus its own quantity; the lot is adjusted by the
// difference.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id string, req request.UpdateTransactionRequest) (model.Transaction, error) {
	ts, err := validation.ValidateUpdateTransaction(req, s.location)
	if err != nil {
		return model.Transaction{}, err
	}

	var updated model.Transaction
	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		transactionRepo := s.transactionRepo.WithTx(tx)

		t, err := transactionRepo.GetTransaction(ctx, userID, id)
		if err != nil {
			return err
		}
		oldQuantity := t.Quantity

		if req.Price != nil {
			t.Price = *req.Price
		}
		if req.Fee != nil {
			t.Fee = *req.Fee
		}
		if !ts.IsZero() {
			t.Timestamp = ts
		}
		if req.Quantity != nil {
			t.Quantity = *req.Quantity
		}

		if t.IsBuy() {
			if req.Reason != nil {
				t.BuyReason = reasonFrom(req.Reason)
			}
			sold := oldQuantity - t.RemainingShares()
			if t.Quantity < sold {
				return fmt.Errorf("%w: %d shares already sold", apperrors.ErrQuantityBelowSold, sold)
			}
			remaining := t.Quantity - sold
			t.Remaining = &remaining
		} else {
			if req.Reason != nil {
				t.SellReason = reasonFrom(req.Reason)
			}
			if err := s.adjustParent(ctx, transactionRepo, t, oldQuantity); err != nil {
				return err
			}
		}

		if err := transactionRepo.UpdateTransaction(ctx, &t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return updated, nil
}

// adjustParent moves the difference between a sell's old and new quantity onto its lot.
func (s *TransactionService) adjustParent(ctx context.Context, transactionRepo *repository.TransactionRepository, sell model.Transaction, oldQuantity int64) error {
	delta := sell.Quantity - oldQuantity
	if delta == 0 {
		return nil
	}
	if sell.ParentBuyID == nil {
		return fmt.Errorf("%w: sell %s has no lot", apperrors.ErrDataInconsistency, sell.ID)
	}

	parent, err := transactionRepo.GetTransaction(ctx, sell.UserID, *sell.ParentBuyID)
	if err != nil {
		return fmt.Errorf("%w: lot of sell %s: %w", apperrors.ErrDataInconsistency, sell.ID, err)
	}

	if delta > 0 {
		available := parent.RemainingShares() + oldQuantity
		if sell.Quantity > available {
			return fmt.Errorf("%w: %d available, %d requested",
				apperrors.ErrInsufficientShares, available, sell.Quantity)
		}
		return transactionRepo.DecrementRemaining(ctx, parent.ID, delta)
	}
	return transactionRepo.IncrementRemaining(ctx, parent.ID, -delta)
}

// DeleteTransaction permanently removes a transaction.
//
// A lot still referenced by sells cannot be deleted (apperrors.ErrLotHasSells).
// Deleting a sell first returns its shares to the current state of its lot.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id string) error {
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		transactionRepo := s.transactionRepo.WithTx(tx)

		t, err := transactionRepo.GetTransaction(ctx, userID, id)
		if err != nil {
			return err
		}

		if t.IsBuy() {
			sells, err := transactionRepo.GetSellsByParent(ctx, t.ID)
			if err != nil {
				return err
			}
			if len(sells) > 0 {
				ids := make([]string, len(sells))
				for i, sell := range sells {
					ids[i] = sell.ID
				}
				return fmt.Errorf("%w: %d sells (%s)", apperrors.ErrLotHasSells, len(sells), strings.Join(ids, ", "))
			}
		} else if t.ParentBuyID != nil {
			if err := transactionRepo.IncrementRemaining(ctx, *t.ParentBuyID, t.Quantity); err != nil {
				return err
			}
		}

		return transactionRepo.DeleteTransaction(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("deleted transaction", "userID", userID, "transactionID", id)
	return nil
}
