package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a new UserRepository scoped to the provided transaction.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *UserRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const userColumns = `id, auth_id, name, email, role, tags, avatar, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var role, tags, createdAt, updatedAt string
	var avatar sql.NullString

	if err := row.Scan(&u.ID, &u.AuthID, &u.Name, &u.Email, &role, &tags, &avatar, &createdAt, &updatedAt); err != nil {
		return model.User{}, err
	}

	u.Role = model.Role(role)
	if avatar.Valid {
		u.Avatar = &avatar.String
	}

	var err error
	if u.Tags, err = decodeTags(tags); err != nil {
		return model.User{}, err
	}
	if u.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.User{}, err
	}
	if u.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetUser retrieves a user by ID.
// Returns apperrors.ErrUserNotFound if no user exists with that ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	u, err := scanUser(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByAuthID retrieves the user linked to an identity-provider subject.
// Returns apperrors.ErrUserNotFound if no user is linked.
func (r *UserRepository) GetUserByAuthID(ctx context.Context, authID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_id = ?`
	u, err := scanUser(r.getQuerier().QueryRowContext(ctx, query, authID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by auth id: %w", err)
	}
	return u, nil
}

// GetUsers returns all users, newest first.
func (r *UserRepository) GetUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users table: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan users table results: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users table: %w", err)
	}
	return users, nil
}

// InsertUser stores a new user. A second user with the same auth_id yields apperrors.ErrDuplicateEntry.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	tags, err := encodeTags(u.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.getQuerier().ExecContext(ctx, query,
		u.ID, u.AuthID, u.Name, u.Email, string(u.Role), tags, u.Avatar,
		FormatTime(u.CreatedAt), FormatTime(u.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: auth id %s", apperrors.ErrDuplicateEntry, u.AuthID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUser overwrites the mutable columns of a user.
func (r *UserRepository) UpdateUser(ctx context.Context, u *model.User) error {
	tags, err := encodeTags(u.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET name = ?, email = ?, role = ?, tags = ?, avatar = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.getQuerier().ExecContext(ctx, query,
		u.Name, u.Email, string(u.Role), tags, u.Avatar, FormatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(result, apperrors.ErrUserNotFound)
}

// DeleteUser removes a user; their stocks and transactions cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
