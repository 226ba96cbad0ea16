package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/mlindenberg/gastlink-backend/api/controllers"
	"github.com/mlindenberg/gastlink-backend/api/routes"
	"github.com/mlindenberg/gastlink-backend/internal/access"
	"github.com/mlindenberg/gastlink-backend/internal/auth"
	"github.com/mlindenberg/gastlink-backend/internal/catalog"
	"github.com/mlindenberg/gastlink-backend/internal/orders"
	"github.com/mlindenberg/gastlink-backend/internal/teams"
	"github.com/mlindenberg/gastlink-backend/internal/users"
	"github.com/mlindenberg/gastlink-backend/pkg/auth/session"
	"github.com/mlindenberg/gastlink-backend/pkg/config"
	"github.com/mlindenberg/gastlink-backend/pkg/db"
	"github.com/mlindenberg/gastlink-backend/pkg/logger"
	"github.com/mlindenberg/gastlink-backend/pkg/migrate"
	"github.com/mlindenberg/gastlink-backend/pkg/outbox"
	"github.com/mlindenberg/gastlink-backend/pkg/redis"
	pkgstripe "github.com/mlindenberg/gastlink-backend/pkg/stripe"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	resolver, err := access.NewResolver(access.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create capability resolver", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:            dbClient,
		UserRepoFactory:     auth.DefaultUserRepoFactory,
		SupplierRepoFactory: auth.DefaultSupplierRepoFactory,
		PasswordConfig:      cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	// Card checkout is optional: without Stripe credentials the platform
	// still runs with invoice payment only.
	var payments orders.StripePaymentClient
	if cfg.Stripe.APIKey != "" {
		stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to initialize stripe", err)
			os.Exit(1)
		}
		payments = orders.NewStripePaymentClient(stripeClient)
	} else {
		logg.Warn(context.Background(), "stripe not configured, card checkout disabled")
	}

	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		catalogRepo,
		usersRepo,
		catalogRepo,
		payments,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	teamsService, err := teams.NewService(
		teams.NewRepository(dbClient.DB()),
		usersRepo,
		dbClient,
		outboxService,
		cfg.Password,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create teams service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			Redis:           redisClient,
			SessionChecker:  sessionManager,
			Resolver:        resolver,
			AuthService:     authService,
			RegisterService: registerService,
			CatalogService:  catalogService,
			OrdersService:   ordersService,
			TeamsService:    teamsService,
			ReadyChecks: map[string]controllers.Pinger{
				"postgres": dbClient,
				"redis":    redisClient,
			},
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
