package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/account"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/charge"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/entitlement"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/fulfillment"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/generation"
	mockupUseCase "github.com/ownaimerch/merch-credits/internal/domain/usecase/mockup"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/reconcile"

	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/handler"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/middleware"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/routes"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/auth"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/client"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/database"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/logger"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/metrics"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/mockup"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/ratelimit"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/storage"
	timeProvider "github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/time"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
)

const serviceName = "merch-credits"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logger.Options{
		Production: cfg.Logger.Format != "console",
		Level:      cfg.Logger.Level,
		Service:    serviceName,
	})
	defer appLogger.Flush()

	for _, warning := range productionWarnings(cfg) {
		appLogger.Warn("Potential security issue in production configuration", map[string]any{
			"warning": warning,
		})
	}

	tp := timeProvider.NewRealTimeProvider()
	ctx := context.Background()

	// Connect and migrate the ledger store
	dbManager := database.NewManager(database.NewConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(ctx); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Metrics
	promMetrics := metrics.NewPrometheusMetrics(prometheus.DefaultRegisterer, serviceName, cfg.Environment)
	if sqlDB, err := dbManager.SQLDB(); err == nil {
		if err := promMetrics.RegisterDBStats(sqlDB, cfg.Database.Database); err != nil {
			appLogger.Warn("Failed to register database pool metrics", map[string]any{
				"error": err.Error(),
			})
		}
	}

	// Pack catalog
	packs := make([]entity.CreditPack, 0, len(cfg.Credits.Packs))
	for _, pack := range cfg.Credits.Packs {
		packs = append(packs, entity.CreditPack{VariantID: pack.VariantID, Code: pack.Code, Credits: pack.Credits})
	}
	catalog, err := entity.NewPackCatalog(packs)
	if err != nil {
		appLogger.Error("Invalid credit pack catalog", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if catalog.Len() == 0 {
		appLogger.Warn("No credit packs configured, purchases will grant nothing", nil)
	}

	// Core use cases
	uow := dbManager.CreateUnitOfWork()
	registry := account.NewRegistry(
		dbManager.AccountRepository(),
		dbManager.UsageRepository(),
		cfg.Credits.StartingBalance,
		tp,
		appLogger,
	)
	evaluator := entitlement.NewEvaluator(entitlement.Config{
		BackgroundRemovalRequiresPurchase: cfg.Entitlement.BackgroundRemovalRequiresPurchase,
	})
	charger := charge.NewExecutor(uow, promMetrics, tp, appLogger)
	reconciler := reconcile.NewReconciler(uow, registry, catalog, cfg.Credits.PaidStatuses, promMetrics, tp, appLogger)

	// External providers
	deps := generation.Dependencies{
		Registry:  registry,
		Evaluator: evaluator,
		Charger:   charger,
		Generator: client.NewOpenAIClient(cfg.Providers.OpenAI),
	}
	if remover := client.NewRemoveBgClient(cfg.Providers.RemoveBg); remover.Configured() {
		deps.Remover = remover
	} else {
		appLogger.Warn("Background removal is not configured, requests will degrade to plain generation", nil)
	}

	if cfg.Storage.Bucket != "" {
		store, err := storage.NewS3ArtworkStore(ctx, cfg.Storage, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize artwork storage", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		deps.Store = store
	}

	healthChecks := map[string]handler.Pinger{"database": dbManager}

	limiter, err := ratelimit.NewTokenBucket(cfg.RateLimit, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize rate limiter", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if limiter != nil {
		defer limiter.Close()
		deps.Limiter = limiter
		healthChecks["redis"] = limiter
	}

	generationService := generation.NewService(
		deps,
		entity.Pricing{
			Generate:          cfg.Credits.GenerateCost,
			BackgroundRemoval: cfg.Credits.BackgroundRemovalCost,
		},
		generation.Config{
			GenerateTimeout:          cfg.Providers.OpenAI.Timeout,
			BackgroundRemovalTimeout: cfg.Providers.RemoveBg.Timeout,
			ChargeRetryAttempts:      cfg.Generation.ChargeRetryAttempts,
			ChargeRetryDelay:         cfg.Generation.ChargeRetryDelay,
		},
		promMetrics,
		tp,
		appLogger,
	)

	fulfillmentConfig := fulfillment.DefaultConfig()
	fulfillmentConfig.DefaultProduct = entity.ProductRef{
		BlueprintID:     cfg.Providers.Printify.BlueprintID,
		PrintProviderID: cfg.Providers.Printify.PrintProviderID,
		VariantID:       cfg.Providers.Printify.VariantID,
	}
	if cfg.Providers.Printify.ShippingMethod > 0 {
		fulfillmentConfig.ShippingMethod = cfg.Providers.Printify.ShippingMethod
	}
	fulfillmentService := fulfillment.NewService(
		client.NewPrintifyClient(cfg.Providers.Printify),
		dbManager.ForwardedOrderRepository(),
		fulfillmentConfig,
		promMetrics,
		tp,
		appLogger,
	)

	compositor, err := mockup.NewCompositor(mockup.NewConfig(cfg.Mockup))
	if err != nil {
		appLogger.Error("Failed to initialize mockup compositor", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	mockupService := mockupUseCase.NewService(compositor, appLogger)

	// HTTP layer
	router := gin.New()
	routes.SetupMiddlewares(router, routes.MiddlewareOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Identity:       identityOptions(cfg.Auth),
		Observer:       promMetrics,
	}, appLogger, tp)
	routes.SetupRoutes(router, routes.Handlers{
		Credits:     handler.NewCreditsHandler(registry, cfg.Auth.RequireToken, cfg.Credits.HistoryLimit, appLogger),
		Generation:  handler.NewGenerationHandler(generationService, mockupService, cfg.Auth.RequireToken, appLogger),
		Fulfillment: handler.NewFulfillmentHandler(fulfillmentService, appLogger),
		Webhooks:    handler.NewWebhookHandler(reconciler, fulfillmentService, cfg.Webhooks.ShopifySecret, appLogger),
		Health:      handler.NewHealthHandler(healthChecks, tp, appLogger),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":         server.Addr,
			"env":          cfg.Environment,
			"db_driver":    cfg.Database.Driver,
			"credit_packs": catalog.Len(),
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// identityOptions enables bearer tokens when a secret is configured
func identityOptions(conf config.AuthConfig) middleware.IdentityOptions {
	options := middleware.IdentityOptions{RequireToken: conf.RequireToken}
	if verifier := auth.NewTokenVerifier(conf.JWTSecret); verifier != nil {
		options.Verifier = verifier
	}
	return options
}

// productionWarnings flags settings that are legal but unsafe in production
func productionWarnings(cfg *config.Config) []string {
	if cfg.Environment != config.Production {
		return nil
	}

	var warnings []string
	if cfg.Database.Driver == database.DriverPostgres {
		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be 'require', 'verify-ca' or 'verify-full'")
		}
	} else {
		warnings = append(warnings, "database.driver sqlite is meant for local runs and tests")
	}
	if cfg.Webhooks.ShopifySecret == "" {
		warnings = append(warnings, "webhooks.shopifySecret is empty, webhook signatures are not verified")
	}
	if !cfg.Auth.RequireToken {
		warnings = append(warnings, "auth.requireToken is false, callers can claim any customer id")
	}
	if cfg.Server.ReadTimeout < 5*time.Second {
		warnings = append(warnings, "server.readTimeout is too low for production")
	}
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin == "*" {
			warnings = append(warnings, "server.allowedOrigins allows every origin")
		}
	}
	return warnings
}
