package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// Claims are the access token claims issued by the authentication provider.
// The subject is the provider's user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserResolver maps a verified identity to a journal user.
type UserResolver interface {
	EnsureUser(ctx context.Context, id model.Identity) (model.User, error)
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user stored by Authenticate.
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}

// Authenticate verifies the HS256 bearer token of each request and attaches
// the matching user, provisioning it on first sight.
// Returns 401 Unauthorized if the token is missing, malformed, expired or has no subject.
func Authenticate(secret []byte, users UserResolver) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), "missing bearer token")
				return
			}

			var claims Claims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), tokenErrorDetail(err))
				return
			}
			if claims.Subject == "" {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), "token has no subject")
				return
			}

			user, err := users.EnsureUser(r.Context(), model.Identity{
				AuthID: claims.Subject,
				Email:  claims.Email,
				Name:   claims.Name,
			})
			if err != nil {
				logging.FromContext(r.Context()).Error("failed to resolve user", "error", err)
				response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveUser.Error(), "")
				return
			}

			logger := logging.FromContext(r.Context()).With("userID", user.ID)
			ctx := logging.ToContext(WithUser(r.Context(), user), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenErrorDetail(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "invalid token signature"
	default:
		return "invalid token"
	}
}

// RequireAdmin rejects users without the admin role with 403 Forbidden.
// It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), "")
			return
		}
		if !user.IsAdmin() {
			response.RespondError(w, http.StatusForbidden, apperrors.ErrForbidden.Error(), "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
