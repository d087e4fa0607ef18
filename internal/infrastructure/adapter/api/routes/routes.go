package routes

import (
	"github.com/gin-gonic/gin"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/handler"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every API handler
type Handlers struct {
	Credits     *handler.CreditsHandler
	Generation  *handler.GenerationHandler
	Fulfillment *handler.FulfillmentHandler
	Webhooks    *handler.WebhookHandler
	Health      *handler.HealthHandler
}

// MiddlewareOptions configures the global middleware chain
type MiddlewareOptions struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	Identity       middleware.IdentityOptions
	Observer       middleware.HTTPObserver // nil disables HTTP metrics
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, handlers Handlers) {
	router.GET("/healthz", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// GET /api/credits?customerId=&email=
		api.GET("/credits", handlers.Credits.GetCredits)
		api.GET("/credits/history", handlers.Credits.GetHistory)

		api.POST("/generate-image", handlers.Generation.GenerateImage)
		api.POST("/mockup", handlers.Generation.Mockup)

		api.POST("/printify/orders", handlers.Fulfillment.CreateOrder)
		api.POST("/printify/products", handlers.Fulfillment.CreateProduct)

		// read-only catalog lookups for picking products
		api.GET("/printify/blueprints", handlers.Fulfillment.ListBlueprints)
		api.GET("/printify/providers", handlers.Fulfillment.ListProviders)
		api.GET("/printify/variants", handlers.Fulfillment.ListVariants)
		api.GET("/printify/shops", handlers.Fulfillment.ListShops)
	}

	webhooks := router.Group("/webhooks/shopify")
	{
		webhooks.POST("/credits", handlers.Webhooks.Credits)
		webhooks.POST("/orders", handlers.Webhooks.Orders)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, options MiddlewareOptions, logger coreport.Logger, timeProvider coreport.TimeProvider) {
	// Order matters: request ids first so every later log line carries one
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
	if options.Observer != nil {
		router.Use(middleware.Metrics(options.Observer, timeProvider))
	}
	router.Use(middleware.CORS(options.AllowedOrigins))
	router.Use(middleware.BodyLimit(options.MaxBodyBytes))
	router.Use(middleware.Identity(options.Identity, logger))
}
