package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/dto"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/middleware"
)

// FulfillmentHandler forwards artwork to the print provider
type FulfillmentHandler struct {
	fulfillment usecase.FulfillmentUseCase
	logger      coreport.Logger
}

// NewFulfillmentHandler creates a new fulfillment handler instance
func NewFulfillmentHandler(fulfillment usecase.FulfillmentUseCase, logger coreport.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		fulfillment: fulfillment,
		logger:      logger,
	}
}

// CreateOrder handles POST /api/printify/orders
func (h *FulfillmentHandler) CreateOrder(c *gin.Context) {
	var req dto.PrintOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err))
		return
	}

	result, err := h.fulfillment.CreateOrder(c.Request.Context(), req.ToEntity())
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPrintOrderResponse(result))
}

// CreateProduct handles POST /api/printify/products
func (h *FulfillmentHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err))
		return
	}

	result, err := h.fulfillment.CreateProduct(c.Request.Context(), entity.ProductRequest{
		ImageURL: req.ImageURL,
		Prompt:   req.Prompt,
	})
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProductResponse{
		OK:        true,
		ProductID: result.ProductID,
		MockupURL: result.MockupURL,
		Prompt:    req.Prompt,
	})
}

// ListBlueprints handles GET /api/printify/blueprints?search=
func (h *FulfillmentHandler) ListBlueprints(c *gin.Context) {
	query, ok := bindCatalogQuery(c)
	if !ok {
		return
	}

	blueprints, err := h.fulfillment.ListBlueprints(c.Request.Context(), query.Search)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BlueprintsResponse{OK: true, Blueprints: blueprints})
}

// ListProviders handles GET /api/printify/providers?blueprint_id=
func (h *FulfillmentHandler) ListProviders(c *gin.Context) {
	query, ok := bindCatalogQuery(c)
	if !ok {
		return
	}

	providers, err := h.fulfillment.ListProviders(c.Request.Context(), query.BlueprintID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProvidersResponse{OK: true, BlueprintID: query.BlueprintID, Providers: providers})
}

// ListVariants handles GET /api/printify/variants?blueprint_id=&print_provider_id=
func (h *FulfillmentHandler) ListVariants(c *gin.Context) {
	query, ok := bindCatalogQuery(c)
	if !ok {
		return
	}

	variants, err := h.fulfillment.ListVariants(c.Request.Context(), query.BlueprintID, query.PrintProviderID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VariantsResponse{
		OK:              true,
		BlueprintID:     query.BlueprintID,
		PrintProviderID: query.PrintProviderID,
		Variants:        variants,
	})
}

// ListShops handles GET /api/printify/shops
func (h *FulfillmentHandler) ListShops(c *gin.Context) {
	shops, err := h.fulfillment.ListShops(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ShopsResponse{OK: true, Shops: shops})
}

func bindCatalogQuery(c *gin.Context) (dto.CatalogQuery, bool) {
	var query dto.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.Abort(c, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err))
		return query, false
	}
	return query, true
}
