package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// AllTransactions handles GET requests to list the caller's transactions across all stocks.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of TransactionResponse, newest first
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionService.GetTransactions(r.Context(), currentUser(r).ID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.transactionService.GetTransaction(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateBuy handles POST requests to record a buy, which opens a new lot.
// Timestamps without a zone are read in the report time zone.
//
// Endpoint: POST /api/transaction/buy
// Request Body: CreateBuyRequest (stockId, quantity, price, fee, timestamp, reason)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the stock does not exist
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateBuy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateBuyRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	transaction, err := h.transactionService.CreateBuy(r.Context(), currentUser(r).ID, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// CreateSell handles POST requests to record a sell against a lot.
//
// Endpoint: POST /api/transaction/sell
// Request Body: CreateSellRequest (parentBuyId, quantity, price, fee, timestamp, reason)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the lot does not exist
// Error: 422 Unprocessable Entity if the lot is not a buy or holds fewer shares than sold
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateSell(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateSellRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	transaction, err := h.transactionService.CreateSell(r.Context(), currentUser(r).ID, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// UpdateTransaction handles PUT requests to edit a buy or a sell.
//
// Endpoint: PUT /api/transaction/{uuid}
// Request Body: UpdateTransactionRequest (all fields optional)
// Response: 200 OK with updated Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if transaction not found
// Error: 422 Unprocessable Entity if a buy would drop below its sold shares or a sell exceeds its lot
// Error: 500 Internal Server Error if update fails
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE requests to remove a transaction.
// Deleting a sell returns its shares to the lot.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 409 Conflict if the buy still has sells
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.transactionService.DeleteTransaction(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// SuggestFee handles GET requests for the default commission of an order:
// 0.03% of its value with a minimum of 5.
//
// Endpoint: GET /api/transaction/fee?price=&quantity=
// Response: 200 OK with FeeQuote
// Error: 400 Bad Request if price or quantity is missing or not positive
func (h *TransactionHandler) SuggestFee(w http.ResponseWriter, r *http.Request) {
	fields := map[string]string{}

	price, err := queryFloat(r, "price")
	if err != nil {
		fields["price"] = err.Error()
	} else if price <= 0 {
		fields["price"] = "price must be greater than 0"
	}
	quantity, err := queryInt64(r, "quantity")
	if err != nil {
		fields["quantity"] = err.Error()
	} else if quantity <= 0 {
		fields["quantity"] = "quantity must be greater than 0"
	}
	if len(fields) > 0 {
		response.RespondError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	response.RespondJSON(w, http.StatusOK, h.transactionService.SuggestFee(price, quantity))
}
