package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/middleware"
	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T, rejecting unknown fields and trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, errors.New("request body is empty")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is empty")
		}
		return req, err
	}
	if dec.More() {
		return req, errors.New("request body must contain a single JSON object")
	}
	return req, nil
}

// currentUser returns the user attached by the auth middleware.
// Routes are only mounted behind it, so a missing user is a wiring bug.
func currentUser(r *http.Request) model.User {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		panic("handlers: no authenticated user in request context")
	}
	return u
}

var errorStatus = []struct {
	err    error
	status int
}{
	{apperrors.ErrStockNotFound, http.StatusNotFound},
	{apperrors.ErrTransactionNotFound, http.StatusNotFound},
	{apperrors.ErrParentBuyNotFound, http.StatusNotFound},
	{apperrors.ErrUserNotFound, http.StatusNotFound},
	{apperrors.ErrDuplicateEntry, http.StatusConflict},
	{apperrors.ErrLotHasSells, http.StatusConflict},
	{apperrors.ErrStockLimitReached, http.StatusConflict},
	{apperrors.ErrInsufficientShares, http.StatusUnprocessableEntity},
	{apperrors.ErrQuantityBelowSold, http.StatusUnprocessableEntity},
	{apperrors.ErrParentNotBuy, http.StatusUnprocessableEntity},
	{apperrors.ErrInvalidPeriod, http.StatusBadRequest},
	{apperrors.ErrInvalidSortColumn, http.StatusBadRequest},
	{validation.ErrInvalidTimestamp, http.StatusBadRequest},
	{apperrors.ErrFailedToRefreshPrice, http.StatusBadGateway},
}

// respondServiceError maps a service error to its HTTP status. Errors without
// a known cause are logged and answered with 500 and the fallback message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			response.RespondError(w, e.status, e.err.Error(), err.Error())
			return
		}
	}

	logging.FromContext(r.Context()).Error(fallback.Error(), "error", err)
	response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
}

// respondInvalidBody answers a request whose body failed to decode.
func respondInvalidBody(w http.ResponseWriter, err error) {
	response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
}

// respondValidation answers a request that failed field validation.
func respondValidation(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

func queryInt64(r *http.Request, key string) (int64, error) {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func queryFloat(r *http.Request, key string) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}
