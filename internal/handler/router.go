package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unclebandit/orders-backend/internal/middleware"
	"github.com/unclebandit/orders-backend/internal/routes"
)

// RouterConfig carries everything NewRouter mounts
type RouterConfig struct {
	Customers *CustomerHandler
	Products  *ProductHandler
	Health    *HealthHandler
	Logger    *slog.Logger

	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter mounts one handler per entry of routes.Table. Collection routes
// are served both with and without the trailing slash.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	endpoints := map[routes.Name]http.HandlerFunc{
		routes.ListCustomers:     cfg.Customers.ListCustomers,
		routes.GetCustomer:       cfg.Customers.GetCustomer,
		routes.NewCustomer:       cfg.Customers.NewCustomer,
		routes.EditCustomer:      cfg.Customers.EditCustomer,
		routes.GetCustomerOrders: cfg.Customers.GetCustomerOrders,

		routes.ListProducts: cfg.Products.ListProducts,
		routes.GetProduct:   cfg.Products.GetProduct,
		routes.NewProduct:   cfg.Products.NewProduct,
		routes.EditProduct:  cfg.Products.EditProduct,

		routes.Health: cfg.Health.ServeHTTP,
	}

	for _, rt := range routes.Table {
		h, ok := endpoints[rt.Name]
		if !ok {
			panic(fmt.Sprintf("handler: no handler for route %q", rt.Name))
		}
		r.Method(rt.Method, rt.Pattern, h)
		if trimmed := strings.TrimSuffix(rt.Pattern, "/"); trimmed != rt.Pattern && trimmed != "" {
			r.Method(rt.Method, trimmed, h)
		}
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", cfg.Logger)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", cfg.Logger)
	})

	return r
}
