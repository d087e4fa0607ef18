package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/dto"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/middleware"
)

// CreditsHandler serves balance and usage lookups
type CreditsHandler struct {
	registry     usecase.AccountRegistry
	requireToken bool
	historyLimit int
	logger       coreport.Logger
}

// NewCreditsHandler creates a new credits handler instance
func NewCreditsHandler(
	registry usecase.AccountRegistry,
	requireToken bool,
	historyLimit int,
	logger coreport.Logger,
) *CreditsHandler {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &CreditsHandler{
		registry:     registry,
		requireToken: requireToken,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// GetCredits handles GET /api/credits, creating the account on first sight
func (h *CreditsHandler) GetCredits(c *gin.Context) {
	var query dto.CreditsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.Abort(c, errs.ErrInvalidRequest)
		return
	}

	identity, err := middleware.ResolveIdentity(c, h.requireToken, query.CustomerID, query.Email)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	balance, err := h.registry.GetBalance(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Error getting credit balance", withRequest(c, map[string]any{
			"customer_id": identity.CustomerID,
			"error":       err.Error(),
		}))
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCreditsResponse(balance))
}

// GetHistory handles GET /api/credits/history
func (h *CreditsHandler) GetHistory(c *gin.Context) {
	var query dto.CreditsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.Abort(c, errs.ErrInvalidRequest)
		return
	}

	identity, err := middleware.ResolveIdentity(c, h.requireToken, query.CustomerID, query.Email)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	limit := query.Limit
	if limit <= 0 {
		limit = h.historyLimit
	}

	records, err := h.registry.GetUsageHistory(c.Request.Context(), identity.CustomerID, limit)
	if err != nil {
		h.logger.Error("Error getting usage history", withRequest(c, map[string]any{
			"customer_id": identity.CustomerID,
			"error":       err.Error(),
		}))
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHistoryResponse(identity.CustomerID, records))
}

// withRequest tags log fields with the request id
func withRequest(c *gin.Context, fields map[string]any) map[string]any {
	fields["request_id"] = middleware.RequestIDFrom(c)
	return fields
}
