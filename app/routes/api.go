// Package routes wires controllers to paths. All authorization decisions
// live here: the API uses JSON role guards, the dashboard pages use the
// redirecting RBAC gate, and both read the same rule table.
package routes

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/controllers"
	"github.com/shashiranjanraj/sklad/pkg/middleware"
	"github.com/shashiranjanraj/sklad/pkg/rbac"
	"github.com/shashiranjanraj/sklad/pkg/response"
	"github.com/shashiranjanraj/sklad/pkg/router"
	"github.com/shashiranjanraj/sklad/pkg/storage"
)

// Register mounts every route. The Authenticate middleware must already be
// installed on r so the guards can read the resolved identity.
func Register(r *router.Router, db *gorm.DB, disk storage.Disk) {
	authC := controllers.NewAuthController(db)
	customerC := controllers.NewCustomerController(db)
	categoryC := controllers.NewCategoryController(db)
	productC := controllers.NewProductController(db, disk)
	orderC := controllers.NewOrderController(db)
	dashC := controllers.NewDashboardController(db)

	table := rbac.Default()
	staff := rbac.HasRole(rbac.Owner, rbac.Admin, rbac.Manager)
	admins := rbac.HasRole(rbac.Owner, rbac.Admin)

	api := r.Group("/api")

	api.Post("/auth/sign-in", "auth.sign_in", authC.SignIn)
	api.Post("/auth/sign-out", "auth.sign_out", authC.SignOut)
	api.Get("/auth/me", "auth.me", authC.Me, middleware.RequireAuth)
	api.Get("/auth/nav", "auth.nav", authC.Nav, middleware.RequireAuth)

	customers := api.Group("/customers", middleware.RequireAuth)
	customers.Get("", "customers.index", customerC.Index)
	customers.Get("/{id}", "customers.show", customerC.Show)
	customers.Post("", "customers.create", customerC.Create, staff)
	customers.Put("/{id}", "customers.update", customerC.Update, staff)
	customers.Delete("/{id}", "customers.delete", customerC.Delete, admins)

	categories := api.Group("/categories", middleware.RequireAuth)
	categories.Get("", "categories.index", categoryC.Index)
	categories.Post("", "categories.create", categoryC.Create, staff)
	categories.Put("/{id}", "categories.update", categoryC.Update, staff)
	categories.Delete("", "categories.delete", categoryC.Delete, admins)
	categories.Delete("/{id}", "categories.delete_by_id", categoryC.Delete, admins)

	products := api.Group("/products", middleware.RequireAuth)
	products.Get("", "products.index", productC.Index)
	products.Get("/{id}", "products.show", productC.Show)
	products.Post("", "products.create", productC.Create, staff)
	products.Put("/{id}", "products.update", productC.Update, staff)
	products.Delete("/{id}", "products.delete", productC.Delete, admins)
	products.Post("/{id}/image", "products.image", productC.UploadImage, staff)
	products.Delete("/{id}/variants/{variantId}", "products.variant_delete", productC.DeleteVariant, staff)

	orders := api.Group("/orders", middleware.RequireAuth)
	orders.Get("", "orders.index", orderC.Index)
	orders.Get("/{id}", "orders.show", orderC.Show)
	orders.Post("", "orders.create", orderC.Create, staff)
	orders.Patch("/{id}", "orders.status", orderC.UpdateStatus, staff)

	// Dashboard pages sit behind the redirecting gate. Every path under
	// /dashboard passes through it, including ones with no handler below.
	dash := r.Group("/dashboard", table.Gate("/login", "/forbidden"))
	dash.Get("", "dashboard.home", dashC.Home)
	dash.Get("/products", "dashboard.products", dashC.Products)
	dash.Get("/customers", "dashboard.customers", dashC.Customers)
	dash.Get("/orders", "dashboard.orders", dashC.Orders)
	dash.Get("/employees", "dashboard.employees", dashC.Employees)
	dash.Get("/accounting", "dashboard.accounting", dashC.Accounting)
	dash.HandleFunc("/*", func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})

	r.Get("/login", "pages.login", dashC.Login)
	r.Get("/forbidden", "pages.forbidden", dashC.Forbidden)
}
