// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Rohith723/nss-election-app/auth"
)

type claimsKey struct{}

// RequireRole verifies the bearer token and admits only the given roles.
// The verified claims are available to next through ClaimsFrom.
func RequireRole(sessions auth.Sessions, next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := sessions.Verify(r.Header.Get("Authorization"))
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				slog.Info("session rejected", "path", r.URL.Path, "error", err)
			}
			w.Header().Set("WWW-Authenticate", `Bearer realm="nss-election"`)
			ErrorResponse(w, http.StatusUnauthorized, "Valid session required")
			return
		}

		if !slices.Contains(roles, claims.Role) {
			ErrorResponse(w, http.StatusForbidden, "Session role not permitted")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// ClaimsFrom returns the claims stored by RequireRole
func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}
