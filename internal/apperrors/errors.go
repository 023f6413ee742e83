package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist or is not owned by the caller.
var (
	// ErrStockNotFound indicates that a stock with the given ID does not exist for the user.
	ErrStockNotFound = errors.New("stock not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist for the user.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrParentBuyNotFound indicates that the lot a sell refers to does not exist.
	ErrParentBuyNotFound = errors.New("parent buy transaction not found")

	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrQuoteNotFound indicates that the quote provider returned no usable price.
	ErrQuoteNotFound = errors.New("quote not found")
)

// Business logic errors represent constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell exceeds the remaining shares of its lot.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrLotHasSells indicates that a buy cannot be deleted while sells reference it.
	ErrLotHasSells = errors.New("buy transaction has related sells")

	// ErrQuantityBelowSold indicates that a buy quantity edit would drop below the shares already sold.
	ErrQuantityBelowSold = errors.New("quantity is below shares already sold")

	// ErrParentNotBuy indicates that a sell refers to a transaction that is not a buy
	// of the same stock.
	ErrParentNotBuy = errors.New("parent transaction is not a buy of this stock")

	// ErrStockLimitReached indicates that the user already holds the maximum number of stocks.
	ErrStockLimitReached = errors.New("stock limit reached")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidSortColumn = errors.New("invalid sort column")
)

// Authentication and authorization errors.
var (
	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the caller lacks the role required for the operation.
	ErrForbidden = errors.New("forbidden")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveStocks       = errors.New("failed to retrieve stocks")
	ErrFailedToRetrieveStock        = errors.New("failed to retrieve stock")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveUsers        = errors.New("failed to retrieve users")
	ErrFailedToRetrieveUser         = errors.New("failed to retrieve user")
	ErrFailedToRefreshPrice         = errors.New("failed to refresh price")
	ErrFailedToBuildReport          = errors.New("failed to build report")
	ErrFailedToExport               = errors.New("failed to export transactions")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a sell whose lot cannot be found).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
