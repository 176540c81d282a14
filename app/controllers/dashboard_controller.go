package controllers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/app/repositories"
	"github.com/shashiranjanraj/sklad/pkg/cache"
	"github.com/shashiranjanraj/sklad/pkg/orm"
	"github.com/shashiranjanraj/sklad/pkg/response"
)

// DashboardController serves the page data behind the /dashboard/* gate.
// Authorization happens in the route middleware; handlers here only load
// data.
type DashboardController struct {
	db        *gorm.DB
	customers *repositories.CustomerRepository
	products  *repositories.ProductRepository
	orders    *repositories.OrderRepository
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{
		db:        db,
		customers: repositories.NewCustomerRepository(db),
		products:  repositories.NewProductRepository(db),
		orders:    repositories.NewOrderRepository(db),
	}
}

type dashboardStats struct {
	Products  int64   `json:"products"`
	Customers int64   `json:"customers"`
	Orders    int64   `json:"orders"`
	LowStock  int64   `json:"lowStock"`
	Revenue   float64 `json:"revenue"`
}

// Home returns the landing-page counters. Cached briefly since every role
// lands here.
func (c *DashboardController) Home(w http.ResponseWriter, r *http.Request) {
	var stats dashboardStats
	if cache.Get("sklad:dashboard:stats", &stats) {
		response.Success(w, stats)
		return
	}

	db := c.db.WithContext(r.Context())
	if err := firstErr(
		db.Model(&models.Product{}).Count(&stats.Products).Error,
		db.Model(&models.Customer{}).Count(&stats.Customers).Error,
		db.Model(&models.Order{}).Count(&stats.Orders).Error,
		db.Model(&models.Product{}).Where("stock < ?", 5).Count(&stats.LowStock).Error,
		db.Model(&models.Order{}).
			Where("status NOT IN ?", []string{models.OrderStatusCanceled, models.OrderStatusReturned}).
			Select("COALESCE(SUM(total), 0)").
			Scan(&stats.Revenue).Error,
	); err != nil {
		writeServiceError(w, r, err)
		return
	}

	_ = cache.Set("sklad:dashboard:stats", stats, 30*time.Second)
	response.Success(w, stats)
}

// Products is the warehouse page: full catalogue with variants.
func (c *DashboardController) Products(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	products, p, err := c.products.List(page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"products":   products,
		"pagination": p,
	})
}

func (c *DashboardController) Customers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	customers, p, err := c.customers.List(page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"customers":  customers,
		"pagination": p,
	})
}

func (c *DashboardController) Orders(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	orders, p, err := c.orders.List(page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"orders":     orders,
		"pagination": p,
	})
}

// Employees lists the back-office accounts (OWNER/ADMIN only via the gate).
func (c *DashboardController) Employees(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := orm.WithDB(c.db).Order("name ASC").Get(&users); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, users)
}

type statusTotal struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

// Accounting breaks revenue down by order status.
func (c *DashboardController) Accounting(w http.ResponseWriter, r *http.Request) {
	var rows []statusTotal
	err := c.db.WithContext(r.Context()).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, rows)
}

// Login serves the login page data; ?from= is echoed back so the client can
// return the user after signing in.
func (c *DashboardController) Login(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{
		"page": "login",
		"from": r.URL.Query().Get("from"),
	})
}

// Forbidden serves the access-denied page data.
func (c *DashboardController) Forbidden(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusForbidden, map[string]string{
		"page": "forbidden",
		"from": r.URL.Query().Get("from"),
	})
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
