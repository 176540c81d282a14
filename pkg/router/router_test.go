package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := New()
	r.Get("/customers/{id}", "customers.show", ok("show"))

	path, found := r.Path("customers.show")
	require.True(t, found)
	assert.Equal(t, "/customers/{id}", path)

	url, err := r.URL("customers.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/customers/7", url)

	_, err = r.URL("customers.show", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	api := r.Group("/api", tag("outer"))
	nested := api.Group("/orders", tag("inner"))
	nested.Get("/{id}", "orders.show", ok("order"), tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order", rec.Body.String())
	assert.Equal(t, []string{"outer", "inner", "route"}, order)
}

func TestGroupWildcardHandleFunc(t *testing.T) {
	r := New()
	dash := r.Group("/dashboard")
	dash.HandleFunc("/*", ok("catchall"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/deep/path", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "catchall", rec.Body.String())
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Get("/a", "a", ok(""))
	r.Post("/b", "b", ok(""))
	r.Get("/unnamed", "", ok(""))

	infos := r.Routes()
	assert.Len(t, infos, 2)
}
