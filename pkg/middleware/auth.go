package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/sklad/pkg/auth"
	"github.com/shashiranjanraj/sklad/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// Authenticate resolves the request through the given auth.Resolver and, on
// success, stores the user ID and role in the request context. Anonymous
// requests pass through untouched; route guards decide what to do with them.
func Authenticate(resolver auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ident, ok := resolver.Resolve(r); ok {
				ctx := context.WithValue(r.Context(), userIDKey{}, ident.UserID)
				ctx = context.WithValue(ctx, roleKey{}, ident.Role)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with a 401. Use on API routes;
// dashboard pages use rbac.Gate which redirects instead.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromCtx(r); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromCtx returns the authenticated user's ID, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok && id != 0
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok && role != ""
}

// ClientIP extracts the originating client IP: the first x-forwarded-for
// entry, then x-real-ip, then "anonymous" when neither is present.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	return "anonymous"
}
