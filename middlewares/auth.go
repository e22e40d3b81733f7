package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/utils"
)

type ContextKey string

const (
	userContextKey ContextKey = "user"
)

// AuthMiddleware accepts requests carrying a valid access token and stores
// its claims in the request context.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				http.Error(w, "unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ParseToken(secret, tokenStr, utils.AccessToken)
			if err != nil {
				http.Error(w, "unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetAuthenticatedUser(r *http.Request) (*utils.Claims, error) {
	claims, ok := r.Context().Value(userContextKey).(*utils.Claims)
	if !ok {
		return nil, errors.New("no user in context")
	}
	return claims, nil
}

// HasRole reports whether claims carry role.
func HasRole(claims *utils.Claims, role models.Role) bool {
	for _, r := range claims.Roles {
		if models.ParseRole(r) == role {
			return true
		}
	}
	return false
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}

func RoleBasedMiddleware(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetAuthenticatedUser(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range allowedRoles {
				if HasRole(claims, role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "forbidden: insufficient role", http.StatusForbidden)
		})
	}
}
