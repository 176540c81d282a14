// Package kernel assembles the HTTP handler: the middleware stack, the
// routes, and the operational endpoints. Both the server and the handler
// tests build their stack through it so they exercise the same pipeline.
package kernel

import (
	"net/http"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/app/routes"
	"github.com/shashiranjanraj/sklad/pkg/auth"
	"github.com/shashiranjanraj/sklad/pkg/cache"
	"github.com/shashiranjanraj/sklad/pkg/event"
	"github.com/shashiranjanraj/sklad/pkg/logger"
	"github.com/shashiranjanraj/sklad/pkg/metrics"
	"github.com/shashiranjanraj/sklad/pkg/middleware"
	"github.com/shashiranjanraj/sklad/pkg/orm"
	"github.com/shashiranjanraj/sklad/pkg/reqid"
	"github.com/shashiranjanraj/sklad/pkg/response"
	"github.com/shashiranjanraj/sklad/pkg/router"
	"github.com/shashiranjanraj/sklad/pkg/session"
	"github.com/shashiranjanraj/sklad/pkg/storage"
)

// cacheAdapter satisfies orm.Cacher with pkg/cache; wired here so orm and
// cache never import each other.
type cacheAdapter struct{}

func (cacheAdapter) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheAdapter) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// New builds the full HTTP handler on the given database connection.
func New(db *gorm.DB, disk storage.Disk) http.Handler {
	orm.CacheStore = cacheAdapter{}
	registerListeners()

	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
		middleware.Authenticate(auth.SessionResolver{}),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	routes.Register(r, db, disk)
	return r.Handler()
}

var listenersOnce sync.Once

// registerListeners wires the domain event listeners once per process.
func registerListeners() {
	listenersOnce.Do(wireListeners)
}

func wireListeners() {
	event.Listen(event.OrderCreated, func(payload interface{}) {
		if order, ok := payload.(*models.Order); ok {
			logger.Info("order created",
				"order_id", order.ID,
				"customer_id", order.CustomerID,
				"total", order.Total,
			)
		}
	})
	event.Listen(event.OrderStatusChanged, func(payload interface{}) {
		logger.Info("order status changed", "change", payload)
	})
}
