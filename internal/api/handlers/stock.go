package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

// StockHandler handles HTTP requests for the watchlist, positions and prices.
type StockHandler struct {
	stockService       *service.StockService
	transactionService *service.TransactionService
	priceService       *service.PriceService
}

// NewStockHandler creates a new StockHandler with the provided service dependencies.
func NewStockHandler(
	stockService *service.StockService,
	transactionService *service.TransactionService,
	priceService *service.PriceService,
) *StockHandler {
	return &StockHandler{
		stockService:       stockService,
		transactionService: transactionService,
		priceService:       priceService,
	}
}

// Stocks handles GET requests to list the caller's stocks with their positions.
//
// Endpoint: GET /api/stock?sort=name|profit|position&order=asc|desc
// Response: 200 OK with array of StockSummary, by position value descending by default
// Error: 400 Bad Request if the sort column is unknown
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) Stocks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order := service.ParseSortOrder(q.Get("order"), service.Descending)

	stocks, err := h.stockService.ListStocks(r.Context(), currentUser(r).ID, q.Get("sort"), order)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveStocks)
		return
	}

	response.RespondJSON(w, http.StatusOK, stocks)
}

// GetStock handles GET requests to retrieve one stock with its position.
//
// Endpoint: GET /api/stock/{uuid}
// Response: 200 OK with StockSummary
// Error: 400 Bad Request if stock ID is invalid (validated by middleware)
// Error: 404 Not Found if the stock does not exist or belongs to another user
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stockService.GetStock(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveStock)
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// CreateStock handles POST requests to add a stock to the watchlist.
// Regular users may hold five stocks; admins and members have no limit.
//
// Endpoint: POST /api/stock
// Request Body: CreateStockRequest (stockCode, stockName, currentPrice)
// Response: 201 Created with Stock
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the code is already listed or the stock limit is reached
// Error: 500 Internal Server Error if creation fails
func (h *StockHandler) CreateStock(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateStockRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateCreateStock(req); err != nil {
		respondValidation(w, err)
		return
	}

	stock, err := h.stockService.CreateStock(r.Context(), currentUser(r), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveStock)
		return
	}

	response.RespondJSON(w, http.StatusCreated, stock)
}

// UpdateStock handles PUT requests to edit the code, name or price of a stock.
//
// Endpoint: PUT /api/stock/{uuid}
// Request Body: UpdateStockRequest (all fields optional)
// Response: 200 OK with Stock
// Error: 400 Bad Request if stock ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the stock does not exist
// Error: 409 Conflict if the new code is already listed
// Error: 500 Internal Server Error if update fails
func (h *StockHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateStockRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateUpdateStock(req); err != nil {
		respondValidation(w, err)
		return
	}

	stock, err := h.stockService.UpdateStock(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveStock)
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// UpdatePrice handles PUT requests to set the current price of a stock by hand.
//
// Endpoint: PUT /api/stock/{uuid}/price
// Request Body: UpdatePriceRequest (price)
// Response: 200 OK with Stock
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the stock does not exist
// Error: 500 Internal Server Error if update fails
func (h *StockHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePriceRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateUpdatePrice(req); err != nil {
		respondValidation(w, err)
		return
	}

	stock, err := h.stockService.UpdatePrice(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"), req.Price)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveStock)
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// DeleteStock handles DELETE requests to remove a stock with all its transactions.
//
// Endpoint: DELETE /api/stock/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if stock ID is invalid (validated by middleware)
// Error: 404 Not Found if the stock does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *StockHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.stockService.DeleteStock(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveStock)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Transactions handles GET requests to list the transactions of a stock, newest first.
//
// Endpoint: GET /api/stock/{uuid}/transaction
// Response: 200 OK with array of Transaction
// Error: 404 Not Found if the stock does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionService.GetTransactionsByStock(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// Lots handles GET requests to list the buy lots of a stock with their sells and profits.
//
// Endpoint: GET /api/stock/{uuid}/lot
// Response: 200 OK with array of Lot, newest first
// Error: 404 Not Found if the stock does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) Lots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.stockService.GetLots(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, lots)
}

// RefreshPrice handles POST requests to fetch the latest close of a stock from Yahoo Finance.
//
// Endpoint: POST /api/stock/{uuid}/refresh
// Response: 200 OK with Stock
// Error: 404 Not Found if the stock does not exist
// Error: 502 Bad Gateway if no quote could be fetched
// Error: 500 Internal Server Error if the price cannot be stored
func (h *StockHandler) RefreshPrice(w http.ResponseWriter, r *http.Request) {
	stock, err := h.priceService.RefreshStock(r.Context(), currentUser(r).ID, chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRefreshPrice)
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// RefreshPrices handles POST requests to refresh every stock of the caller.
// Stocks that fail are listed in the response without failing the request.
//
// Endpoint: POST /api/stock/refresh
// Response: 200 OK with PriceRefreshResponse
// Error: 500 Internal Server Error if the stocks cannot be read
func (h *StockHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceService.RefreshAll(r.Context(), currentUser(r).ID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveStocks)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
