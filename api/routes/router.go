package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/willardc/stocktrack-backend/api/controllers"
	"github.com/willardc/stocktrack-backend/api/middleware"
	"github.com/willardc/stocktrack-backend/internal/auth"
	"github.com/willardc/stocktrack-backend/internal/collections"
	"github.com/willardc/stocktrack-backend/internal/dashboard"
	"github.com/willardc/stocktrack-backend/internal/inventory"
	"github.com/willardc/stocktrack-backend/internal/orders"
	"github.com/willardc/stocktrack-backend/internal/payments"
	"github.com/willardc/stocktrack-backend/internal/procurement"
	"github.com/willardc/stocktrack-backend/pkg/auth/session"
	"github.com/willardc/stocktrack-backend/pkg/config"
	"github.com/willardc/stocktrack-backend/pkg/db"
	"github.com/willardc/stocktrack-backend/pkg/logger"
	"github.com/willardc/stocktrack-backend/pkg/metrics"
	"github.com/willardc/stocktrack-backend/pkg/redis"
)

// Deps bundles everything the router needs. Nil optional fields degrade
// gracefully (no metrics endpoint, no idempotency caching).
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics

	Auth        auth.Service
	Orders      orders.Service
	Procurement procurement.Service
	Collections collections.Service
	Payments    payments.Service
	Inventory   inventory.Service
	Dashboard   dashboard.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var idemStore redis.IdempotencyStore
	var cachePinger interface{ Ping(context.Context) error }
	if deps.Redis != nil {
		idemStore = deps.Redis
		cachePinger = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Middleware)
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cachePinger))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Idempotency(idemStore, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Post("/", controllers.OrdersCreate(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrdersDetail(deps.Orders, logg))
			r.Patch("/{orderId}", controllers.OrdersUpdate(deps.Orders, logg))
			r.Delete("/{orderId}", controllers.OrdersDelete(deps.Orders, logg))
			r.Post("/{orderId}/fulfill", controllers.OrdersFulfill(deps.Orders, logg))
			r.Post("/{orderId}/status", controllers.OrdersSetStatus(deps.Orders, logg))
		})

		r.Route("/procurement", func(r chi.Router) {
			r.Get("/", controllers.ProcurementList(deps.Procurement, logg))
			r.Post("/", controllers.ProcurementCreate(deps.Procurement, logg))
			r.Get("/{orderId}", controllers.ProcurementDetail(deps.Procurement, logg))
			r.Patch("/{orderId}", controllers.ProcurementUpdate(deps.Procurement, logg))
			r.Delete("/{orderId}", controllers.ProcurementDelete(deps.Procurement, logg))
			r.Post("/{orderId}/receive", controllers.ProcurementReceive(deps.Procurement, logg))
			r.Post("/{orderId}/status", controllers.ProcurementSetStatus(deps.Procurement, logg))
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", controllers.CollectionsList(deps.Collections, logg))
			r.Post("/", controllers.CollectionsRecord(deps.Collections, logg))
			r.Delete("/{collectionId}", controllers.CollectionsDelete(deps.Collections, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", controllers.PaymentsList(deps.Payments, logg))
			r.Post("/", controllers.PaymentsRecord(deps.Payments, logg))
			r.Delete("/{paymentId}", controllers.PaymentsDelete(deps.Payments, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
			r.Get("/{itemId}", controllers.InventoryDetail(deps.Inventory, logg))
			r.Patch("/{itemId}", controllers.InventoryUpdate(deps.Inventory, logg))
			r.Delete("/{itemId}", controllers.InventoryDelete(deps.Inventory, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(deps.Dashboard, logg))
	})

	return r
}
