package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/internal/kernel"
	"github.com/shashiranjanraj/sklad/pkg/auth"
	"github.com/shashiranjanraj/sklad/pkg/database"
	"github.com/shashiranjanraj/sklad/pkg/rbac"
	"github.com/shashiranjanraj/sklad/pkg/storage"
)

type envelope struct {
	Status      int               `json:"status"`
	Error       string            `json:"error"`
	Data        json.RawMessage   `json:"data"`
	Errors      map[string]string `json:"errors"`
	MinutesLeft int               `json:"minutesLeft"`
}

func setupAPI(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Customer{}, &models.Category{},
		&models.Product{}, &models.Variant{},
		&models.Order{}, &models.OrderItem{},
		&models.LoginAttempt{},
	))

	disk := storage.NewLocalDisk(t.TempDir(), "/storage")
	return kernel.New(db, disk), db
}

func createUser(t *testing.T, db *gorm.DB, role rbac.Role) (models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{
		Name:     string(role) + " user",
		Email:    fmt.Sprintf("%s-%s@sklad.local", role, t.Name()),
		Password: hash,
		Role:     string(role),
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestSignInAndThrottle(t *testing.T) {
	h, db := setupAPI(t)
	createUser(t, db, rbac.Manager)

	signIn := func(password string) (*httptest.ResponseRecorder, envelope) {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{
			"email":    fmt.Sprintf("MANAGER-%s@sklad.local", t.Name()),
			"password": password,
		}))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		var env envelope
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
		return rec, env
	}

	rec, env := signIn("password123")
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "MANAGER", data.User.Role)
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))

	// Four more attempts exhaust the window of five.
	for i := 0; i < 4; i++ {
		rec, _ = signIn("wrong")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, env = signIn("password123")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.GreaterOrEqual(t, env.MinutesLeft, 1)
	assert.LessOrEqual(t, env.MinutesLeft, 15)
	assert.NotEmpty(t, env.Error)
}

func TestCustomerCRUD(t *testing.T) {
	h, db := setupAPI(t)
	_, token := createUser(t, db, rbac.Admin)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := doJSON(t, h, http.MethodPost, "/api/customers", token, map[string]string{
		"name": "Acme GmbH", "email": "buy@acme.test", "phone": "+49 30 123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Customer
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Acme GmbH", created.Name)

	// Unique collision on email comes back as a 400 naming the field.
	rec, env = doJSON(t, h, http.MethodPost, "/api/customers", token, map[string]string{
		"name": "Other", "email": "buy@acme.test",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "email")

	rec, env = doJSON(t, h, http.MethodPost, "/api/customers", token, map[string]string{
		"name": "Other", "phone": "+49 30 123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "phone")

	rec, _ = doJSON(t, h, http.MethodPost, "/api/customers", token, map[string]string{
		"email": "no-name@acme.test",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/customers/%d", created.ID), token, map[string]string{
		"name": "Acme AG", "notes": "renamed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Customer
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Acme AG", updated.Name)
	assert.Nil(t, updated.Email)

	rec, _ = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/customers/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/customers/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/customers/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	h, db := setupAPI(t)
	_, token := createUser(t, db, rbac.Manager)

	rec, env := doJSON(t, h, http.MethodPost, "/api/categories", token, map[string]string{
		"name": "Work Wear",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var category models.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))
	assert.Equal(t, "work-wear", category.Slug)

	rec, env = doJSON(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Jacket", "sku": "JKT-100", "price": 79.9, "stock": 12,
		"categoryId": category.ID,
		"variants": []map[string]interface{}{
			{"size": "M", "color": "navy", "stock": 6},
			{"size": "L", "color": "navy", "stock": 6},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	require.Len(t, product.Variants, 2)

	// SKU is unique; the 400 names the field.
	rec, env = doJSON(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Clone", "sku": "JKT-100", "price": 1, "stock": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "sku")

	// Slug is unique too.
	rec, env = doJSON(t, h, http.MethodPost, "/api/categories", token, map[string]string{
		"name": "Work Wear",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "slug")

	// PUT updates scalars, updates the first variant, and adds a third.
	rec, env = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), token, map[string]interface{}{
		"name": "Jacket v2", "sku": "JKT-100", "price": 89.9, "stock": 10,
		"variants": []map[string]interface{}{
			{"id": product.Variants[0].ID, "size": "M", "color": "black", "stock": 4},
			{"size": "XL", "color": "navy", "stock": 2},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "Jacket v2", product.Name)
	assert.Len(t, product.Variants, 3)

	rec, _ = doJSON(t, h, http.MethodDelete,
		fmt.Sprintf("/api/products/%d/variants/%d", product.ID, product.Variants[0].ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Len(t, product.Variants, 2)
}

func TestOrderEndpoints(t *testing.T) {
	h, db := setupAPI(t)
	_, managerToken := createUser(t, db, rbac.Manager)
	_, employeeToken := createUser(t, db, rbac.Employee)

	customer := models.Customer{Name: "Acme"}
	require.NoError(t, db.Create(&customer).Error)
	product := models.Product{Name: "Gloves", SKU: "GLV-9", Price: 5, Stock: 10, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	payload := map[string]interface{}{
		"customerId": customer.ID,
		"items":      []map[string]interface{}{{"productId": product.ID, "quantity": 4}},
	}

	// Employees may look but not place orders.
	rec, _ := doJSON(t, h, http.MethodPost, "/api/orders", employeeToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", managerToken, payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.InDelta(t, 20.0, order.Total, 1e-9)
	require.NotNil(t, order.Customer)
	assert.Equal(t, "Acme", order.Customer.Name)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 6, reloaded.Stock)

	// Asking for more than remains fails and changes nothing.
	rec, _ = doJSON(t, h, http.MethodPost, "/api/orders", managerToken, map[string]interface{}{
		"customerId": customer.ID,
		"items":      []map[string]interface{}{{"productId": product.ID, "quantity": 7}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 6, reloaded.Stock)

	rec, env = doJSON(t, h, http.MethodPatch,
		fmt.Sprintf("/api/orders/%d", order.ID), managerToken,
		map[string]string{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)

	rec, _ = doJSON(t, h, http.MethodPatch,
		fmt.Sprintf("/api/orders/%d", order.ID), managerToken,
		map[string]string{"status": "LOST"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doJSON(t, h, http.MethodGet, "/api/orders", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing.Orders, 1)
}

func TestDashboardGate(t *testing.T) {
	h, db := setupAPI(t)
	_, managerToken := createUser(t, db, rbac.Manager)
	_, employeeToken := createUser(t, db, rbac.Employee)

	get := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/dashboard/orders", "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?from=%2Fdashboard%2Forders", rec.Header().Get("Location"))

	rec = get("/dashboard/orders", employeeToken)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/forbidden?from=%2Fdashboard%2Forders", rec.Header().Get("Location"))

	rec = get("/dashboard/orders", managerToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get("/dashboard", employeeToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get("/dashboard/accounting", managerToken)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/forbidden?from=%2Fdashboard%2Faccounting", rec.Header().Get("Location"))
}

func TestAuthNav(t *testing.T) {
	h, db := setupAPI(t)
	_, managerToken := createUser(t, db, rbac.Manager)

	rec, env := doJSON(t, h, http.MethodGet, "/api/auth/nav", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var nav struct {
		Role     string   `json:"role"`
		Sections []string `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &nav))
	assert.Equal(t, "MANAGER", nav.Role)
	assert.Equal(t, []string{"/dashboard/products", "/dashboard/orders", "/dashboard"}, nav.Sections)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/auth/nav", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
