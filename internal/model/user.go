package model

import (
	"slices"
	"time"
)

// Role is the access level of a journal user.
type Role string

// Supported roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Stock ownership policy.
const (
	DefaultStockLimit = 5
	UnlimitedStocks   = -1
	// MembershipTag grants an unlimited watchlist to non-admin users.
	MembershipTag = "星球"
)

// User is an account of the journal, linked to the external identity provider by AuthID.
type User struct {
	ID        string    `json:"id"`
	AuthID    string    `json:"authId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Tags      []string  `json:"tags"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasTag reports whether tag is assigned to the user.
func (u User) HasTag(tag string) bool {
	return slices.Contains(u.Tags, tag)
}

// Identity is the authenticated subject asserted by the identity provider's token.
type Identity struct {
	AuthID string
	Email  string
	Name   string
}

// UserProfile is the caller's own account with their watchlist usage.
type UserProfile struct {
	User
	StockLimit StockLimit `json:"stockLimit"`
}
