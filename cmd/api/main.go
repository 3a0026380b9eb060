package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lmartinelli/tienda-backend/api/routes"
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
	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/logger"
	"github.com/lmartinelli/tienda-backend/pkg/metrics"
	"github.com/lmartinelli/tienda-backend/pkg/migrate"
	"github.com/lmartinelli/tienda-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	cartRepo := cartsvc.NewRepository(conn)
	orderRepo := ordersvc.NewRepository(conn)
	reviewRepo := reviews.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	exitOnErr(logg, "auth service", err)

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	exitOnErr(logg, "register service", err)

	userService, err := users.NewService(users.ServiceParams{DB: dbClient, Repo: userRepo})
	exitOnErr(logg, "user service", err)

	productService, err := products.NewService(products.ServiceParams{
		Repo:       productRepo,
		Categories: categoryRepo,
	})
	exitOnErr(logg, "product service", err)

	categoryService, err := categories.NewService(categories.ServiceParams{
		DB:   dbClient,
		Repo: categoryRepo,
	})
	exitOnErr(logg, "category service", err)

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		DB:       dbClient,
		Repo:     cartRepo,
		Products: productRepo,
	})
	exitOnErr(logg, "cart service", err)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		DB:       dbClient,
		Carts:    cartRepo,
		Products: productRepo,
		Orders:   orderRepo,
		Users:    userRepo,
		Logger:   logg,
	})
	exitOnErr(logg, "checkout service", err)

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{Repo: orderRepo})
	exitOnErr(logg, "order service", err)

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:      reviewRepo,
		Purchases: orderRepo,
	})
	exitOnErr(logg, "review service", err)

	reportService, err := reports.NewService(reports.ServiceParams{DB: conn})
	exitOnErr(logg, "report service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Metrics:    metrics.NewHTTPMetrics(),
			Identities: userRepo,

			Auth:       authService,
			Register:   registerService,
			Users:      userService,
			Products:   productService,
			Categories: categoryService,
			Cart:       cartService,
			Checkout:   checkoutService,
			Orders:     orderService,
			Reviews:    reviewService,
			Reports:    reportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnErr(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
