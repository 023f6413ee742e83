package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

// UserService handles accounts, profiles and the watchlist size policy.
type UserService struct {
	userRepo  *repository.UserRepository
	stockRepo *repository.StockRepository
}

// NewUserService creates a new UserService with the provided repository dependencies.
func NewUserService(
	userRepo *repository.UserRepository,
	stockRepo *repository.StockRepository,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		stockRepo: stockRepo,
	}
}

// StockLimit returns how many stocks u may hold, or model.UnlimitedStocks for
// admins and members.
func StockLimit(u model.User) int {
	if u.IsAdmin() || u.HasTag(model.MembershipTag) {
		return model.UnlimitedStocks
	}
	return model.DefaultStockLimit
}

// EnsureUser returns the user linked to id.AuthID, provisioning a regular user
// from the token claims on first sight.
func (s *UserService) EnsureUser(ctx context.Context, id model.Identity) (model.User, error) {
	u, err := s.userRepo.GetUserByAuthID(ctx, id.AuthID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return model.User{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveUser, err)
	}

	now := time.Now().UTC()
	u = model.User{
		ID:        uuid.New().String(),
		AuthID:    id.AuthID,
		Name:      validation.SanitizeText(id.Name),
		Email:     id.Email,
		Role:      model.RoleUser,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.InsertUser(ctx, &u); err != nil {
		// A concurrent first request may have provisioned the same subject.
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return s.userRepo.GetUserByAuthID(ctx, id.AuthID)
		}
		return model.User{}, err
	}
	logging.FromContext(ctx).Info("provisioned user", "userID", u.ID, "authID", u.AuthID)
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.userRepo.GetUser(ctx, id)
}

// GetStockLimit reports how many stocks u holds against their limit.
func (s *UserService) GetStockLimit(ctx context.Context, u model.User) (model.StockLimit, error) {
	count, err := s.stockRepo.CountStocks(ctx, u.ID)
	if err != nil {
		return model.StockLimit{}, err
	}
	return model.StockLimit{Count: count, Limit: StockLimit(u)}, nil
}

// UpdateProfile changes the caller's display name and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req request.UpdateProfileRequest) (model.User, error) {
	u, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if req.Name != nil {
		u.Name = validation.SanitizeText(*req.Name)
	}
	if req.Avatar != nil {
		if *req.Avatar == "" {
			u.Avatar = nil
		} else {
			avatar := *req.Avatar
			u.Avatar = &avatar
		}
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.UpdateUser(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// ListUsers returns every account, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveUsers, err)
	}
	return users, nil
}

// CreateUser registers an account ahead of its first sign-in.
func (s *UserService) CreateUser(ctx context.Context, req request.CreateUserRequest) (model.User, error) {
	role := model.Role(req.Role)
	if role == "" {
		role = model.RoleUser
	}
	now := time.Now().UTC()
	u := model.User{
		ID:        uuid.New().String(),
		AuthID:    req.AuthID,
		Name:      validation.SanitizeText(req.Name),
		Email:     req.Email,
		Role:      role,
		Tags:      validation.SanitizeTags(req.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.InsertUser(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpdateUser changes role, tags, name or email of any account.
func (s *UserService) UpdateUser(ctx context.Context, id string, req request.UpdateUserRequest) (model.User, error) {
	u, err := s.userRepo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if req.Name != nil {
		u.Name = validation.SanitizeText(*req.Name)
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		u.Role = model.Role(*req.Role)
	}
	if req.Tags != nil {
		u.Tags = validation.SanitizeTags(*req.Tags)
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.UpdateUser(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// DeleteUser removes an account with all its stocks and transactions.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("deleted user", "userID", id)
	return nil
}
