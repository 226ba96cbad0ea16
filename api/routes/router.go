package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlindenberg/gastlink-backend/api/controllers"
	"github.com/mlindenberg/gastlink-backend/api/middleware"
	"github.com/mlindenberg/gastlink-backend/internal/auth"
	"github.com/mlindenberg/gastlink-backend/internal/catalog"
	"github.com/mlindenberg/gastlink-backend/internal/orders"
	"github.com/mlindenberg/gastlink-backend/internal/teams"
	"github.com/mlindenberg/gastlink-backend/pkg/auth/session"
	"github.com/mlindenberg/gastlink-backend/pkg/config"
	"github.com/mlindenberg/gastlink-backend/pkg/logger"
	"github.com/mlindenberg/gastlink-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Redis           *redis.Client
	SessionChecker  session.AccessSessionChecker
	Resolver        middleware.CapabilityResolver
	AuthService     auth.Service
	RegisterService auth.RegisterService
	CatalogService  catalog.Service
	OrdersService   orders.Service
	TeamsService    teams.Service
	ReadyChecks     map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthLimits.LoginWindow,
		cfg.AuthLimits.LoginIPLimit,
		cfg.AuthLimits.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthLimits.RegisterWindow,
		cfg.AuthLimits.RegisterIPLimit,
		cfg.AuthLimits.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadyChecks))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Route("/register", func(r chi.Router) {
			r.Post("/customer", controllers.RegisterCustomer(deps.RegisterService, logg))
			r.Post("/supplier", controllers.RegisterSupplier(deps.RegisterService, logg))
		})
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		// Customer surface.
		r.Get("/suppliers", controllers.SupplierList(deps.CatalogService, logg))
		r.Get("/suppliers/{supplierId}/products", controllers.SupplierProducts(deps.CatalogService, logg))
		r.Post("/checkout", controllers.Checkout(deps.OrdersService, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.CustomerOrders(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.CustomerOrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/cancel", controllers.CustomerOrderCancel(deps.OrdersService, logg))
		})

		// Supplier surface.
		r.Route("/supplier", func(r chi.Router) {
			// Accepting an invite happens before the caller has any
			// capability, so it only requires authentication.
			r.Post("/team/accept", controllers.TeamAccept(deps.TeamsService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.SupplierCapability(deps.Resolver, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.SupplierOrders(deps.OrdersService, logg))
					r.Get("/{orderId}", controllers.SupplierOrderDetail(deps.OrdersService, logg))
					r.Post("/{orderId}/status", controllers.SupplierOrderStatus(deps.OrdersService, logg))
					r.Post("/{orderId}/lines/{lineId}/packed", controllers.SupplierLinePacked(deps.OrdersService, logg))
				})

				r.Get("/accounting/summary", controllers.AccountingSummary(deps.OrdersService, logg))
				r.Get("/sales/orders", controllers.SalesOrders(deps.OrdersService, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.ProductList(deps.CatalogService, logg))
					r.Post("/", controllers.ProductCreate(deps.CatalogService, logg))
					r.Patch("/{productId}", controllers.ProductUpdate(deps.CatalogService, logg))
					r.Delete("/{productId}", controllers.ProductDelete(deps.CatalogService, logg))
				})

				r.Route("/team", func(r chi.Router) {
					r.Get("/", controllers.TeamRoster(deps.TeamsService, logg))
					r.Post("/invite", controllers.TeamInvite(deps.TeamsService, logg))
					r.Delete("/{userId}", controllers.TeamRemoveMember(deps.TeamsService, logg))
					r.Route("/assignments", func(r chi.Router) {
						r.Get("/", controllers.AssignmentList(deps.TeamsService, logg))
						r.Put("/", controllers.AssignmentUpsert(deps.TeamsService, logg))
						r.Delete("/{restaurantId}", controllers.AssignmentRemove(deps.TeamsService, logg))
					})
				})
			})
		})
	})

	return r
}
