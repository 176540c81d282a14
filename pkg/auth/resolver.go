package auth

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/sklad/pkg/session"
)

// Identity is the result of resolving a request to an authenticated user.
type Identity struct {
	UserID uint
	Role   string
}

// Resolver turns request credentials into an Identity. Middleware and
// handlers depend on this interface only, never on a concrete auth scheme.
type Resolver interface {
	Resolve(r *http.Request) (Identity, bool)
}

// SessionResolver resolves the cookie session first (the browser path) and
// falls back to an Authorization bearer JWT (the API-client path).
type SessionResolver struct{}

func (SessionResolver) Resolve(r *http.Request) (Identity, bool) {
	sess := session.FromCtx(r)
	if id, ok := sess.GetUint("user_id"); ok && id != 0 {
		role, _ := sess.GetString("role")
		return Identity{UserID: id, Role: role}, true
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		claims, err := ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err == nil && claims.UserID != 0 {
			return Identity{UserID: claims.UserID, Role: claims.Role}, true
		}
	}

	return Identity{}, false
}
