package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lmartinelli/tienda-backend/api/controllers"
	"github.com/lmartinelli/tienda-backend/api/middleware"
	"github.com/lmartinelli/tienda-backend/internal/auth"
	cartsvc "github.com/lmartinelli/tienda-backend/internal/cart"
	"github.com/lmartinelli/tienda-backend/internal/categories"
	checkoutsvc "github.com/lmartinelli/tienda-backend/internal/checkout"
	ordersvc "github.com/lmartinelli/tienda-backend/internal/orders"
	"github.com/lmartinelli/tienda-backend/internal/products"
	"github.com/lmartinelli/tienda-backend/internal/reports"
	"github.com/lmartinelli/tienda-backend/internal/reviews"
	"github.com/lmartinelli/tienda-backend/internal/users"
	"github.com/lmartinelli/tienda-backend/pkg/config"
	"github.com/lmartinelli/tienda-backend/pkg/enums"
	"github.com/lmartinelli/tienda-backend/pkg/logger"
	"github.com/lmartinelli/tienda-backend/pkg/metrics"
	"github.com/lmartinelli/tienda-backend/pkg/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         controllers.Pinger
	Redis      *redis.Client
	Metrics    *metrics.HTTPMetrics
	Identities middleware.IdentityChecker

	Auth       auth.Service
	Register   auth.RegisterService
	Users      users.Service
	Products   products.Service
	Categories categories.Service
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Orders     ordersvc.Service
	Reviews    reviews.Service
	Reports    reports.Service
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
		middleware.Metrics(deps.Metrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authed := middleware.Auth(cfg.JWT, deps.Identities, logg)
	idempotency := middleware.Idempotency(deps.Redis, logg)
	admin := middleware.RequireRole(logg, enums.RoleAdmin.String())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"postgres": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.Register(deps.Register, logg))
	})

	// Admin bootstrap, never mounted in production.
	if !cfg.App.IsProd() {
		r.Post("/api/admin/v1/auth/register", controllers.RegisterAdmin(deps.Register, logg))
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
		r.Get("/top", controllers.TopProducts(deps.Reports, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, admin)
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Patch("/{productId}/stock", controllers.UpdateProductStock(deps.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(deps.Categories, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, admin)
			r.Post("/", controllers.CreateCategory(deps.Categories, logg))
			r.Get("/stats", controllers.CategoryStats(deps.Reports, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(deps.Categories, logg))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", controllers.AddCartItem(deps.Cart, logg))
		r.Delete("/item/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
		r.With(middleware.RequireSelfOrAdmin("userId", logg)).
			Get("/{userId}", controllers.GetCart(deps.Cart, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authed)
		r.With(idempotency).Post("/", controllers.Checkout(deps.Checkout, logg))
		r.With(admin).Get("/stats", controllers.OrderStats(deps.Reports, logg))
		r.With(middleware.RequireSelfOrAdmin("userId", logg)).
			Get("/user/{userId}", controllers.ListUserOrders(deps.Orders, logg))
		r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
		r.With(admin).Patch("/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/{productId}", controllers.ListProductReviews(deps.Reviews, logg))
		r.With(authed).Post("/", controllers.CreateReview(deps.Reviews, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(authed)
		r.With(admin).Get("/", controllers.ListUsers(deps.Users, logg))
		r.With(middleware.RequireSelfOrAdmin("userId", logg)).
			Get("/{userId}", controllers.GetUser(deps.Users, logg))
		r.With(admin).Delete("/{userId}", controllers.DeleteUser(deps.Users, logg))
	})

	return r
}
