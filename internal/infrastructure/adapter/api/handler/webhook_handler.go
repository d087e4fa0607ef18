package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/dto"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/middleware"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/auth"
)

// WebhookHandler receives commerce platform webhooks.
// Any non-2xx answer makes Shopify redeliver, so only retryable failures return one.
type WebhookHandler struct {
	reconciler  usecase.CreditReconciler
	fulfillment usecase.FulfillmentUseCase
	secret      string
	logger      coreport.Logger
}

// NewWebhookHandler creates a new webhook handler; an empty secret disables signature checks
func NewWebhookHandler(
	reconciler usecase.CreditReconciler,
	fulfillment usecase.FulfillmentUseCase,
	secret string,
	logger coreport.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		reconciler:  reconciler,
		fulfillment: fulfillment,
		secret:      secret,
		logger:      logger,
	}
}

// Credits handles POST /webhooks/shopify/credits
func (h *WebhookHandler) Credits(c *gin.Context) {
	order, ok := h.decode(c)
	if !ok {
		return
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), order.ToPurchaseEvent())
	if err != nil {
		h.logger.Error("Credit webhook failed, awaiting redelivery", withRequest(c, map[string]any{
			"order_id": order.ID.String(),
			"error":    err.Error(),
		}))
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, dto.NewReconcileResponse(result))
}

// Orders handles POST /webhooks/shopify/orders
func (h *WebhookHandler) Orders(c *gin.Context) {
	order, ok := h.decode(c)
	if !ok {
		return
	}

	result, err := h.fulfillment.ForwardOrder(c.Request.Context(), order.ToCommerceOrder())
	if err != nil {
		h.logger.Error("Order webhook failed", withRequest(c, map[string]any{
			"order_id": order.ID.String(),
			"error":    err.Error(),
		}))
		status := errs.HTTPStatus(err)
		if status < http.StatusInternalServerError {
			// malformed orders will never succeed; acknowledge them
			c.JSON(http.StatusOK, dto.NewErrorResponse(err))
			return
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, dto.NewPrintOrderResponse(result))
}

// decode verifies the signature and parses the order payload
func (h *WebhookHandler) decode(c *gin.Context) (*dto.ShopifyOrder, bool) {
	body, err := c.GetRawData()
	if err != nil {
		middleware.Abort(c, errs.ErrInvalidRequest)
		return nil, false
	}

	if h.secret != "" && !auth.VerifyShopifyWebhook(h.secret, body, c.GetHeader(auth.ShopifyHMACHeader)) {
		h.logger.Warn("Rejected webhook with invalid signature", withRequest(c, map[string]any{
			"topic": c.GetHeader("X-Shopify-Topic"),
			"shop":  c.GetHeader("X-Shopify-Shop-Domain"),
		}))
		middleware.Abort(c, errs.ErrNotAuthenticated)
		return nil, false
	}

	var order dto.ShopifyOrder
	if err := json.Unmarshal(body, &order); err != nil {
		h.logger.Warn("Cannot parse webhook body", withRequest(c, map[string]any{
			"error": err.Error(),
		}))
		middleware.Abort(c, errs.ErrInvalidRequest)
		return nil, false
	}
	return &order, true
}
