package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

// UserHandler handles HTTP requests for the caller's profile and for account administration.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler with the provided service dependency.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me handles GET requests for the caller's own profile.
// The stock limit is -1 for admins and members, who may hold any number of stocks.
//
// Endpoint: GET /api/user/me
// Response: 200 OK with UserProfile
// Error: 500 Internal Server Error if the stock count cannot be read
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	limit, err := h.userService.GetStockLimit(r.Context(), user)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveUser)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.UserProfile{User: user, StockLimit: limit})
}

// UpdateMe handles PUT requests to change the caller's display name or avatar.
//
// Endpoint: PUT /api/user/me
// Request Body: UpdateProfileRequest (name, avatar; both optional, empty avatar clears it)
// Response: 200 OK with User
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if update fails
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateProfileRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateUpdateProfile(req); err != nil {
		respondValidation(w, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), currentUser(r).ID, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveUser)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

// Users handles GET requests to list every account. Admin only.
//
// Endpoint: GET /api/admin/user
// Response: 200 OK with array of User
// Error: 500 Internal Server Error if retrieval fails
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveUsers)
		return
	}

	response.RespondJSON(w, http.StatusOK, users)
}

// CreateUser handles POST requests to register an account ahead of its first sign-in. Admin only.
//
// Endpoint: POST /api/admin/user
// Request Body: CreateUserRequest (authId, email required; name, role, tags optional)
// Response: 201 Created with User
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the auth ID is already registered
// Error: 500 Internal Server Error if creation fails
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateUserRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateCreateUser(req); err != nil {
		respondValidation(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveUser)
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT requests to change the role, tags, name or email of an account. Admin only.
//
// Endpoint: PUT /api/admin/user/{uuid}
// Request Body: UpdateUserRequest (all fields optional)
// Response: 200 OK with User
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the user does not exist
// Error: 500 Internal Server Error if update fails
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateUserRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateUpdateUser(req); err != nil {
		respondValidation(w, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveUser)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE requests to remove an account with all its data. Admin only.
// Admins cannot delete their own account.
//
// Endpoint: DELETE /api/admin/user/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or is the caller's own
// Error: 404 Not Found if the user does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	if userID == currentUser(r).ID {
		response.RespondError(w, http.StatusBadRequest, "cannot delete your own account", "")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveUser)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
