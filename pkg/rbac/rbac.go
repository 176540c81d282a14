// Package rbac implements role-based access control over a single
// declarative table of (path prefix, allowed roles) rules.
//
// The same table drives all three enforcement points so they can never
// disagree: the request gate on /dashboard/*, per-page guards, and the
// nav-visibility data served to the UI.
package rbac

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/shashiranjanraj/sklad/pkg/middleware"
	"github.com/shashiranjanraj/sklad/pkg/response"
)

// Role is one of the closed set of back-office roles.
type Role string

const (
	Owner    Role = "OWNER"
	Admin    Role = "ADMIN"
	Manager  Role = "MANAGER"
	Employee Role = "EMPLOYEE"
	Intern   Role = "INTERN"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case Owner, Admin, Manager, Employee, Intern:
		return true
	}
	return false
}

// Rule maps a path prefix to the roles allowed under it.
type Rule struct {
	Prefix string
	Roles  []Role
}

func (r Rule) allows(role Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Table is an ordered rule set. Rules are kept sorted longest-prefix first
// so the most specific rule always decides.
type Table struct {
	rules []Rule
}

// NewTable builds a Table from rules; order of the input does not matter.
func NewTable(rules ...Rule) Table {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return Table{rules: sorted}
}

// Default is the dashboard rule table.
func Default() Table {
	return NewTable(
		Rule{Prefix: "/dashboard/accounting", Roles: []Role{Owner, Admin}},
		Rule{Prefix: "/dashboard/employees", Roles: []Role{Owner, Admin}},
		Rule{Prefix: "/dashboard/orders", Roles: []Role{Owner, Admin, Manager}},
		Rule{Prefix: "/dashboard/products", Roles: []Role{Owner, Admin, Manager}},
		Rule{Prefix: "/dashboard", Roles: []Role{Owner, Admin, Manager, Employee, Intern}},
	)
}

// Match returns the most specific rule whose prefix matches path.
func (t Table) Match(path string) (Rule, bool) {
	for _, rule := range t.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return Rule{}, false
}

// IsAllowed reports whether role may access path. Pure; no I/O.
// Unmatched paths are denied.
func (t Table) IsAllowed(path string, role Role) bool {
	rule, ok := t.Match(path)
	if !ok {
		return false
	}
	return rule.allows(role)
}

// Sections returns the rule prefixes visible to role, most specific first.
// The UI renders its navigation from this so visibility and enforcement
// share one source of truth.
func (t Table) Sections(role Role) []string {
	var out []string
	for _, rule := range t.rules {
		if rule.allows(role) {
			out = append(out, rule.Prefix)
		}
	}
	return out
}

// Gate is the request-level guard for page routes. Anonymous users are
// redirected to the login page, authenticated-but-unauthorized users to the
// forbidden page; both redirects carry the originally requested path in
// ?from= so the user can be sent back after signing in.
func (t Table) Gate(loginPath, forbiddenPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				redirectFrom(w, r, loginPath, path)
				return
			}

			if !t.IsAllowed(path, Role(role)) {
				redirectFrom(w, r, forbiddenPath, path)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func redirectFrom(w http.ResponseWriter, r *http.Request, target, from string) {
	http.Redirect(w, r, target+"?from="+url.QueryEscape(from), http.StatusFound)
}

// HasRole returns middleware that allows access only to users with one of
// the given roles. Requires the Authenticate middleware to have run.
// Unlike Gate this answers with JSON status codes, so it suits API routes.
func HasRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
