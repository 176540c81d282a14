package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sklad/pkg/auth"
	"github.com/shashiranjanraj/sklad/pkg/middleware"
)

func TestIsAllowed(t *testing.T) {
	table := Default()

	cases := []struct {
		path string
		role Role
		want bool
	}{
		{"/dashboard/orders", Manager, true},
		{"/dashboard/orders", Employee, false},
		{"/dashboard/orders/42", Manager, true},
		{"/dashboard/products", Manager, true},
		{"/dashboard/products", Intern, false},
		{"/dashboard/accounting", Admin, true},
		{"/dashboard/accounting", Manager, false},
		{"/dashboard/employees", Owner, true},
		{"/dashboard/employees", Employee, false},
		{"/dashboard", Intern, true},
		{"/dashboard/random", Intern, true}, // falls back to the /dashboard rule
		{"/elsewhere", Owner, false},        // unmatched paths are denied
	}

	for _, tc := range cases {
		got := table.IsAllowed(tc.path, tc.role)
		assert.Equalf(t, tc.want, got, "IsAllowed(%q, %s)", tc.path, tc.role)
	}
}

func TestLongestPrefixWins(t *testing.T) {
	// Registration order must not matter.
	table := NewTable(
		Rule{Prefix: "/dashboard", Roles: []Role{Owner, Admin, Manager, Employee, Intern}},
		Rule{Prefix: "/dashboard/accounting", Roles: []Role{Owner}},
	)

	assert.False(t, table.IsAllowed("/dashboard/accounting", Intern))
	assert.True(t, table.IsAllowed("/dashboard/accounting", Owner))
	assert.True(t, table.IsAllowed("/dashboard", Intern))
}

func TestSections(t *testing.T) {
	table := Default()

	assert.Equal(t,
		[]string{"/dashboard/accounting", "/dashboard/employees", "/dashboard/products", "/dashboard/orders", "/dashboard"},
		table.Sections(Owner))
	assert.Equal(t,
		[]string{"/dashboard/products", "/dashboard/orders", "/dashboard"},
		table.Sections(Manager))
	assert.Equal(t, []string{"/dashboard"}, table.Sections(Intern))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, Manager.Valid())
	assert.False(t, Role("SUPERUSER").Valid())
}

// staticResolver authenticates every request as a fixed identity.
type staticResolver struct {
	ident auth.Identity
	ok    bool
}

func (s staticResolver) Resolve(*http.Request) (auth.Identity, bool) { return s.ident, s.ok }

func gatedHandler(resolver auth.Resolver) http.Handler {
	gate := Default().Gate("/login", "/forbidden")
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Authenticate(resolver)(gate(ok))
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	h := gatedHandler(staticResolver{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/orders", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?from=%2Fdashboard%2Forders", rec.Header().Get("Location"))
}

func TestGateRedirectsUnauthorizedToForbidden(t *testing.T) {
	h := gatedHandler(staticResolver{
		ident: auth.Identity{UserID: 3, Role: string(Employee)},
		ok:    true,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/orders", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/forbidden?from=%2Fdashboard%2Forders", rec.Header().Get("Location"))
}

func TestGatePassesAuthorized(t *testing.T) {
	h := gatedHandler(staticResolver{
		ident: auth.Identity{UserID: 3, Role: string(Manager)},
		ok:    true,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/orders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
