package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	user := testutil.NewUser().Build(t, db)
//	admin := testutil.NewUser().Admin().Build(t, db)
type UserBuilder struct {
	user model.User
}

// NewUser creates a UserBuilder for a regular user without tags.
func NewUser() *UserBuilder {
	now := time.Now().UTC()
	return &UserBuilder{user: model.User{
		ID:        MakeID(),
		AuthID:    "auth|" + randomAlphanumeric(12),
		Name:      MakeName("Trader"),
		Email:     randomAlphanumeric(8) + "@example.com",
		Role:      model.RoleUser,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.user.ID = id
	return b
}

// WithAuthID sets the identity provider subject.
func (b *UserBuilder) WithAuthID(authID string) *UserBuilder {
	b.user.AuthID = authID
	return b
}

// WithName sets a custom name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

// WithTags sets the membership tags.
func (b *UserBuilder) WithTags(tags ...string) *UserBuilder {
	b.user.Tags = tags
	return b
}

// Admin gives the user the admin role.
func (b *UserBuilder) Admin() *UserBuilder {
	b.user.Role = model.RoleAdmin
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	u := b.user
	if err := repository.NewUserRepository(db).InsertUser(context.Background(), &u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// StockBuilder provides a fluent interface for creating test stocks.
//
// Example usage:
//
//	stock := testutil.NewStock(user.ID).WithCode("600519").WithPrice(12).Build(t, db)
type StockBuilder struct {
	stock model.Stock
}

// NewStock creates a StockBuilder for the given user priced at 10.
func NewStock(userID string) *StockBuilder {
	now := time.Now().UTC()
	return &StockBuilder{stock: model.Stock{
		ID:           MakeID(),
		UserID:       userID,
		Code:         MakeCode(),
		Name:         MakeName("Stock"),
		CurrentPrice: 10,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
}

// WithCode sets the stock code.
func (b *StockBuilder) WithCode(code string) *StockBuilder {
	b.stock.Code = code
	return b
}

// WithName sets the stock name.
func (b *StockBuilder) WithName(name string) *StockBuilder {
	b.stock.Name = name
	return b
}

// WithPrice sets the current price.
func (b *StockBuilder) WithPrice(price float64) *StockBuilder {
	b.stock.CurrentPrice = price
	return b
}

// CreatedAt sets the creation time, which orders the watchlist.
func (b *StockBuilder) CreatedAt(at time.Time) *StockBuilder {
	b.stock.CreatedAt = at.UTC()
	b.stock.UpdatedAt = at.UTC()
	return b
}

// Build creates the stock in the database and returns it.
func (b *StockBuilder) Build(t *testing.T, db *sql.DB) model.Stock {
	t.Helper()

	s := b.stock
	if err := repository.NewStockRepository(db).InsertStock(context.Background(), &s); err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}
	return s
}

// TransactionBuilder provides a fluent interface for creating buys and sells.
//
// Example usage:
//
//	buy := testutil.NewBuy(stock).WithQuantity(100).WithPrice(10).Build(t, db)
//	sell := testutil.NewSell(buy).WithQuantity(40).WithPrice(12).Build(t, db)
type TransactionBuilder struct {
	tx model.Transaction
}

// NewBuy creates a builder for a lot of 100 shares at 10 with a fee of 5.
func NewBuy(stock model.Stock) *TransactionBuilder {
	return &TransactionBuilder{tx: model.Transaction{
		ID:        MakeID(),
		UserID:    stock.UserID,
		StockID:   stock.ID,
		Type:      model.TransactionBuy,
		Quantity:  100,
		Price:     10,
		Fee:       5,
		Timestamp: time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second),
		CreatedAt: time.Now().UTC(),
	}}
}

// NewSell creates a builder selling all remaining shares of buy at its price, one day later.
func NewSell(buy model.Transaction) *TransactionBuilder {
	parentID := buy.ID
	return &TransactionBuilder{tx: model.Transaction{
		ID:          MakeID(),
		UserID:      buy.UserID,
		StockID:     buy.StockID,
		Type:        model.TransactionSell,
		Quantity:    buy.RemainingShares(),
		Price:       buy.Price,
		Fee:         5,
		Timestamp:   buy.Timestamp.Add(24 * time.Hour),
		ParentBuyID: &parentID,
		CreatedAt:   time.Now().UTC(),
	}}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.tx.ID = id
	return b
}

// WithQuantity sets the number of shares.
func (b *TransactionBuilder) WithQuantity(quantity int64) *TransactionBuilder {
	b.tx.Quantity = quantity
	return b
}

// WithPrice sets the price per share.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.tx.Price = price
	return b
}

// WithFee sets the commission.
func (b *TransactionBuilder) WithFee(fee float64) *TransactionBuilder {
	b.tx.Fee = fee
	return b
}

// At sets the trade time.
func (b *TransactionBuilder) At(ts time.Time) *TransactionBuilder {
	b.tx.Timestamp = ts
	return b
}

// WithTags sets the reason tags: buy reason tags on a buy, sell reason tags on a sell.
func (b *TransactionBuilder) WithTags(tags ...string) *TransactionBuilder {
	reason := &model.Reason{Tags: tags}
	if b.tx.IsBuy() {
		b.tx.BuyReason = reason
	} else {
		b.tx.SellReason = reason
	}
	return b
}

// WithNote sets the reason note, keeping any tags.
func (b *TransactionBuilder) WithNote(note string) *TransactionBuilder {
	target := &b.tx.SellReason
	if b.tx.IsBuy() {
		target = &b.tx.BuyReason
	}
	if *target == nil {
		*target = &model.Reason{Tags: []string{}}
	}
	(*target).Note = note
	return b
}

// Build stores the transaction. A buy starts with all its shares remaining;
// a sell takes its shares off the parent lot.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewTransactionRepository(db)

	tx := b.tx
	if tx.IsBuy() {
		remaining := tx.Quantity
		tx.Remaining = &remaining
	}
	if err := repo.InsertTransaction(ctx, &tx); err != nil {
		t.Fatalf("Failed to create test %s: %v", tx.Type, err)
	}
	if !tx.IsBuy() {
		if err := repo.DecrementRemaining(ctx, *tx.ParentBuyID, tx.Quantity); err != nil {
			t.Fatalf("Failed to take sell off its lot: %v", err)
		}
	}
	return tx
}

// Reload reads a transaction back from the database.
func Reload(t *testing.T, db *sql.DB, tx model.Transaction) model.Transaction {
	t.Helper()

	fresh, err := repository.NewTransactionRepository(db).GetTransaction(context.Background(), tx.UserID, tx.ID)
	if err != nil {
		t.Fatalf("Failed to reload transaction %s: %v", tx.ID, err)
	}
	return fresh
}
