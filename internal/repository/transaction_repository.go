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

// TransactionRepository provides data access methods for the transactions table.
// It maintains the remaining share count of buy lots with guarded updates.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `t.id, t.user_id, t.stock_id, t.type, t.quantity, t.price, t.fee, t.timestamp,
	t.parent_buy_id, t.remaining, t.buy_reason, t.sell_reason, t.created_at`

func scanTransaction(row interface{ Scan(...any) error }, extra ...any) (model.Transaction, error) {
	var t model.Transaction
	var txType, timestamp, createdAt string
	var parentBuyID, buyReason, sellReason sql.NullString
	var remaining sql.NullInt64

	dest := []any{
		&t.ID, &t.UserID, &t.StockID, &txType, &t.Quantity, &t.Price, &t.Fee, &timestamp,
		&parentBuyID, &remaining, &buyReason, &sellReason, &createdAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Transaction{}, err
	}

	t.Type = model.TransactionType(txType)
	if parentBuyID.Valid {
		t.ParentBuyID = &parentBuyID.String
	}
	if remaining.Valid {
		t.Remaining = &remaining.Int64
	}

	var err error
	if t.BuyReason, err = decodeReason(buyReason); err != nil {
		return model.Transaction{}, err
	}
	if t.SellReason, err = decodeReason(sellReason); err != nil {
		return model.Transaction{}, err
	}
	if t.Timestamp, err = ParseTime(timestamp); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transactions table results: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}
	return transactions, nil
}

// GetTransaction retrieves one of the user's transactions.
// Returns apperrors.ErrTransactionNotFound if it does not exist or belongs to another user.
func (r *TransactionRepository) GetTransaction(ctx context.Context, userID, id string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = ? AND t.user_id = ?`
	t, err := scanTransaction(r.getQuerier().QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// GetTransactionsByStock returns the transactions of one stock, newest first.
func (r *TransactionRepository) GetTransactionsByStock(ctx context.Context, userID, stockID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.user_id = ? AND t.stock_id = ?
		ORDER BY t.timestamp DESC, t.created_at DESC
	`
	return r.queryTransactions(ctx, query, userID, stockID)
}

// GetTransactionsByUser returns every transaction of the user, newest first.
func (r *TransactionRepository) GetTransactionsByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.user_id = ?
		ORDER BY t.timestamp DESC, t.created_at DESC
	`
	return r.queryTransactions(ctx, query, userID)
}

// GetTransactionResponses returns every transaction of the user joined with its stock, newest first.
func (r *TransactionRepository) GetTransactionResponses(ctx context.Context, userID string) ([]model.TransactionResponse, error) {
	query := `
		SELECT ` + transactionColumns + `, s.stock_code, s.stock_name
		FROM transactions t
		INNER JOIN stocks s ON s.id = t.stock_id
		WHERE t.user_id = ?
		ORDER BY t.timestamp DESC, t.created_at DESC
	`
	rows, err := r.getQuerier().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	responses := []model.TransactionResponse{}
	for rows.Next() {
		var resp model.TransactionResponse
		t, err := scanTransaction(rows, &resp.StockCode, &resp.StockName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transactions table results: %w", err)
		}
		resp.Transaction = t
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}
	return responses, nil
}

// GetTransactionsInRange returns the user's transactions whose own timestamp lies
// within [start, end], oldest first.
func (r *TransactionRepository) GetTransactionsInRange(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.user_id = ? AND t.timestamp >= ? AND t.timestamp <= ?
		ORDER BY t.timestamp ASC, t.created_at ASC
	`
	return r.queryTransactions(ctx, query, userID, FormatTime(start), FormatTime(end))
}

// GetTransactionsByIDs returns the user's transactions with the given IDs.
// Unknown IDs are skipped. If ids is empty, returns an empty slice.
func (r *TransactionRepository) GetTransactionsByIDs(ctx context.Context, userID string, ids []string) ([]model.Transaction, error) {
	if len(ids) == 0 {
		return []model.Transaction{}, nil
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.user_id = ? AND t.id IN (` + placeholders(len(ids)) + `)
		ORDER BY t.timestamp ASC, t.created_at ASC
	`
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	return r.queryTransactions(ctx, query, args...)
}

// GetSellsByParent returns the sells drawing down a lot, oldest first.
func (r *TransactionRepository) GetSellsByParent(ctx context.Context, parentBuyID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.parent_buy_id = ? AND t.type = 'sell'
		ORDER BY t.timestamp ASC, t.created_at ASC
	`
	return r.queryTransactions(ctx, query, parentBuyID)
}

// InsertTransaction stores a new buy or sell as is; callers maintain the lot's remaining count.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	buyReason, err := encodeReason(t.BuyReason)
	if err != nil {
		return err
	}
	sellReason, err := encodeReason(t.SellReason)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, user_id, stock_id, type, quantity, price, fee, timestamp,
			parent_buy_id, remaining, buy_reason, sell_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.getQuerier().ExecContext(ctx, query,
		t.ID, t.UserID, t.StockID, string(t.Type), t.Quantity, t.Price, t.Fee, FormatTime(t.Timestamp),
		t.ParentBuyID, t.Remaining, buyReason, sellReason, FormatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction overwrites the editable columns, including remaining.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	buyReason, err := encodeReason(t.BuyReason)
	if err != nil {
		return err
	}
	sellReason, err := encodeReason(t.SellReason)
	if err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET quantity = ?, price = ?, fee = ?, timestamp = ?, remaining = ?, buy_reason = ?, sell_reason = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.getQuerier().ExecContext(ctx, query,
		t.Quantity, t.Price, t.Fee, FormatTime(t.Timestamp), t.Remaining, buyReason, sellReason,
		t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireRow(result, apperrors.ErrTransactionNotFound)
}

// DecrementRemaining takes qty shares off a lot. The update only applies while the
// lot still holds at least qty shares; otherwise apperrors.ErrInsufficientShares is returned.
func (r *TransactionRepository) DecrementRemaining(ctx context.Context, buyID string, qty int64) error {
	result, err := r.getQuerier().ExecContext(ctx, `
		UPDATE transactions
		SET remaining = remaining - ?
		WHERE id = ? AND type = 'buy' AND remaining >= ?
	`, qty, buyID, qty)
	if err != nil {
		return fmt.Errorf("failed to decrement remaining: %w", err)
	}
	return requireRow(result, apperrors.ErrInsufficientShares)
}

// IncrementRemaining returns qty shares to a lot, never beyond its quantity.
func (r *TransactionRepository) IncrementRemaining(ctx context.Context, buyID string, qty int64) error {
	result, err := r.getQuerier().ExecContext(ctx, `
		UPDATE transactions
		SET remaining = remaining + ?
		WHERE id = ? AND type = 'buy' AND remaining + ? <= quantity
	`, qty, buyID, qty)
	if err != nil {
		return fmt.Errorf("failed to increment remaining: %w", err)
	}
	return requireRow(result, apperrors.ErrDataInconsistency)
}

// DeleteTransaction permanently removes one of the user's transactions.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireRow(result, apperrors.ErrTransactionNotFound)
}
