package handler

import (
	"encoding/base64"
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

// GenerationHandler serves billable generations and free mockups
type GenerationHandler struct {
	generation   usecase.GenerationUseCase
	mockup       usecase.MockupUseCase
	requireToken bool
	logger       coreport.Logger
}

// NewGenerationHandler creates a new generation handler instance
func NewGenerationHandler(
	generation usecase.GenerationUseCase,
	mockup usecase.MockupUseCase,
	requireToken bool,
	logger coreport.Logger,
) *GenerationHandler {
	return &GenerationHandler{
		generation:   generation,
		mockup:       mockup,
		requireToken: requireToken,
		logger:       logger,
	}
}

// GenerateImage handles POST /api/generate-image
func (h *GenerationHandler) GenerateImage(c *gin.Context) {
	var req dto.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err))
		return
	}

	var rawID, email string
	if req.Customer != nil {
		rawID, email = req.Customer.ID.String(), req.Customer.Email
	}
	identity, err := middleware.ResolveIdentity(c, h.requireToken, rawID, email)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	result, err := h.generation.Generate(c.Request.Context(), entity.GenerationRequest{
		Identity:         identity,
		Prompt:           req.Prompt,
		RemoveBackground: req.RemoveBackground,
		RequestID:        req.RequestID,
	})
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGenerateImageResponse(result))
}

// Mockup handles POST /api/mockup; previews are free and need no identity
func (h *GenerationHandler) Mockup(c *gin.Context) {
	var req dto.MockupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err))
		return
	}

	preview, err := h.mockup.Compose(c.Request.Context(), req.Base64, req.GarmentColor)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MockupResponse{
		OK:     true,
		Base64: "data:image/png;base64," + base64.StdEncoding.EncodeToString(preview),
	})
}
