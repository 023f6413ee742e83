package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// StockRepository provides data access methods for the stocks table.
// Every lookup is scoped to the owning user.
type StockRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a new StockRepository scoped to the provided transaction.
func (r *StockRepository) WithTx(tx *sql.Tx) *StockRepository {
	return &StockRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *StockRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const stockColumns = `id, user_id, stock_code, stock_name, current_price, created_at, updated_at`

func scanStock(row interface{ Scan(...any) error }) (model.Stock, error) {
	var s model.Stock
	var createdAt, updatedAt string
	if err := row.Scan(&s.ID, &s.UserID, &s.Code, &s.Name, &s.CurrentPrice, &createdAt, &updatedAt); err != nil {
		return model.Stock{}, err
	}
	var err error
	if s.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Stock{}, err
	}
	if s.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Stock{}, err
	}
	return s, nil
}

func (r *StockRepository) queryStocks(ctx context.Context, query string, args ...any) ([]model.Stock, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks table: %w", err)
	}
	defer rows.Close()

	stocks := []model.Stock{}
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stocks table results: %w", err)
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks table: %w", err)
	}
	return stocks, nil
}

// GetStocks returns the user's stocks in creation order.
func (r *StockRepository) GetStocks(ctx context.Context, userID string) ([]model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE user_id = ? ORDER BY created_at ASC, stock_code ASC`
	return r.queryStocks(ctx, query, userID)
}

// GetAllStocks returns every stock of every user, used by the scheduled price refresh.
func (r *StockRepository) GetAllStocks(ctx context.Context) ([]model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks ORDER BY user_id, created_at ASC`
	return r.queryStocks(ctx, query)
}

// GetStock retrieves one of the user's stocks.
// Returns apperrors.ErrStockNotFound if it does not exist or belongs to another user.
func (r *StockRepository) GetStock(ctx context.Context, userID, id string) (model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = ? AND user_id = ?`
	s, err := scanStock(r.getQuerier().QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Stock{}, apperrors.ErrStockNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to get stock: %w", err)
	}
	return s, nil
}

// CountStocks returns how many stocks the user holds.
func (r *StockRepository) CountStocks(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM stocks WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stocks: %w", err)
	}
	return count, nil
}

// InsertStock stores a new stock. A duplicate code for the same user yields apperrors.ErrDuplicateEntry.
func (r *StockRepository) InsertStock(ctx context.Context, s *model.Stock) error {
	query := `
		INSERT INTO stocks (` + stockColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		s.ID, s.UserID, s.Code, s.Name, s.CurrentPrice, FormatTime(s.CreatedAt), FormatTime(s.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: stock code %s", apperrors.ErrDuplicateEntry, s.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to insert stock: %w", err)
	}
	return nil
}

// UpdateStock overwrites code, name and price of a stock.
func (r *StockRepository) UpdateStock(ctx context.Context, s *model.Stock) error {
	query := `
		UPDATE stocks
		SET stock_code = ?, stock_name = ?, current_price = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.getQuerier().ExecContext(ctx, query,
		s.Code, s.Name, s.CurrentPrice, FormatTime(s.UpdatedAt), s.ID, s.UserID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: stock code %s", apperrors.ErrDuplicateEntry, s.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return requireRow(result, apperrors.ErrStockNotFound)
}

// UpdatePrice sets the current price of a stock regardless of owner.
func (r *StockRepository) UpdatePrice(ctx context.Context, id string, price float64, at time.Time) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE stocks SET current_price = ?, updated_at = ? WHERE id = ?`,
		price, FormatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock price: %w", err)
	}
	return requireRow(result, apperrors.ErrStockNotFound)
}

// DeleteStock removes a stock; its transactions cascade.
func (r *StockRepository) DeleteStock(ctx context.Context, userID, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM stocks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}
	return requireRow(result, apperrors.ErrStockNotFound)
}

func requireRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
