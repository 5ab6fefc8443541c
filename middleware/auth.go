// Package middleware implements the authentication gate for protected
// routes. Requests are rejected before any handler logic runs; handlers
// trust the injected identity for every ownership check.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"task-service/authcontext"
	"task-service/store"

	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
)

const bearerPrefix = "Bearer "

// TokenAuth builds the bearer-token gate. The returned wrapper extracts the
// token from the Authorization header, resolves it to a user through the
// token store and injects the identity into the request context. A missing,
// malformed or unknown token, or a token of an inactive user, fails closed
// with a 401 that never says which check failed.
func TokenAuth(tokens *store.TokenStore) func(next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return func(next httpserver.HandlerFunc) httpserver.HandlerFunc {
		return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				unauthorized(w)
				return
			}
			key := strings.TrimSpace(header[len(bearerPrefix):])

			user, err := tokens.Resolve(r.Context(), key)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx = authcontext.WithIdentity(ctx, authcontext.Identity{
				UserID:  user.ID,
				Email:   user.Email,
				IsStaff: user.IsStaff,
			})
			next(ctx, w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(errs.NewAuthenticationError("Invalid or missing authentication credentials"))
}
