package mockup

import (
	"context"
	"strings"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/provider"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

// DefaultGarmentColor is used when the caller does not pick one
const DefaultGarmentColor = "white"

// Service renders garment previews locally; it is free and never touches the ledger
type Service struct {
	compositor provider.MockupCompositor
	logger     coreport.Logger
}

// NewService creates a new mockup service
func NewService(compositor provider.MockupCompositor, logger coreport.Logger) usecase.MockupUseCase {
	return &Service{
		compositor: compositor,
		logger:     logger,
	}
}

// Compose decodes the artwork and places it on the garment
func (s *Service) Compose(ctx context.Context, imageData, garmentColor string) ([]byte, error) {
	artwork, err := entity.DecodeImageData(imageData)
	if err != nil {
		return nil, err
	}

	color := strings.TrimSpace(garmentColor)
	if color == "" {
		color = DefaultGarmentColor
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	preview, err := s.compositor.Compose(artwork, color)
	if err != nil {
		s.logger.Warn("Failed to compose mockup", map[string]any{
			"garment_color": color,
			"error":         err.Error(),
		})
		return nil, err
	}
	return preview, nil
}
