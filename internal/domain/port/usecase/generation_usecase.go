package usecase

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// GenerationUseCase runs a billable image generation: evaluate, generate, charge
type GenerationUseCase interface {
	Generate(ctx context.Context, request entity.GenerationRequest) (*entity.GenerationResult, error)
}
