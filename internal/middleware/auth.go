package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/repository"
)

type contextKey string

const UserContextKey contextKey = "user"

// APIKeyHeader is the header clients pass their key in
const APIKeyHeader = "X-API-Key"

// GetUserFromContext retrieves the authenticated user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// UserAPIKeyAuth authenticates API routes by per-user API key. Keys are
// stored hashed; the header value is hashed and looked up. skipPaths lists
// exact paths or "prefix*" patterns that stay public (registration, login,
// email verification, token-based shared pages).
func UserAPIKeyAuth(userRepo repository.UserRepo, skipPaths []string) func(http.Handler) http.Handler {
	skipSet := make(map[string]bool)
	for _, p := range skipPaths {
		skipSet[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if skipSet[path] {
				next.ServeHTTP(w, r)
				return
			}
			for p := range skipSet {
				if strings.HasSuffix(p, "*") && strings.HasPrefix(path, strings.TrimSuffix(p, "*")) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Only authenticate API routes
			if !strings.HasPrefix(path, "/api") {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(APIKeyHeader)
			if providedKey == "" {
				writeAuthError(w, http.StatusUnauthorized, "API key is required.")
				return
			}

			keyHash := models.HashAPIKey(providedKey)
			user, err := userRepo.GetByAPIKeyHash(r.Context(), keyHash)
			if err != nil {
				writeAuthError(w, http.StatusInternalServerError, "Internal server error.")
				return
			}
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid API key.")
				return
			}
			if !user.IsActive {
				writeAuthError(w, http.StatusForbidden, "User account is disabled.")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
