package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/provider"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

const (
	providerImage      = "openai"
	providerBackground = "removebg"
	maxNoteLength      = 120
	pngContentType     = "image/png"
)

// Config tunes provider timeouts and charge retries
type Config struct {
	GenerateTimeout          time.Duration
	BackgroundRemovalTimeout time.Duration
	ChargeRetryAttempts      int
	ChargeRetryDelay         time.Duration
}

// DefaultConfig returns conservative defaults
func DefaultConfig() Config {
	return Config{
		GenerateTimeout:          90 * time.Second,
		BackgroundRemovalTimeout: 30 * time.Second,
		ChargeRetryAttempts:      3,
		ChargeRetryDelay:         200 * time.Millisecond,
	}
}

// Dependencies groups the collaborators of the generation service.
// Remover, Store and Limiter are optional.
type Dependencies struct {
	Registry  usecase.AccountRegistry
	Evaluator usecase.EntitlementEvaluator
	Charger   usecase.ChargeExecutor
	Generator provider.ImageGenerator
	Remover   provider.BackgroundRemover
	Store     provider.ArtworkStore
	Limiter   coreport.RateLimiter
}

// Service runs billable generations: evaluate, do the paid work, then charge
type Service struct {
	deps         Dependencies
	pricing      entity.Pricing
	config       Config
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	newRequestID func() string
}

// NewService creates a new generation service
func NewService(
	deps Dependencies,
	pricing entity.Pricing,
	config Config,
	metrics coreport.Metrics,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.GenerationUseCase {
	if config.ChargeRetryAttempts < 1 {
		config.ChargeRetryAttempts = 1
	}
	return &Service{
		deps:         deps,
		pricing:      pricing,
		config:       config,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
		newRequestID: uuid.NewString,
	}
}

// Generate evaluates entitlement, generates the artwork and charges for it.
// Nothing is charged when the generation fails.
func (s *Service) Generate(ctx context.Context, request entity.GenerationRequest) (*entity.GenerationResult, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	customerID := request.Identity.CustomerID
	prompt := strings.TrimSpace(request.Prompt)

	if err := s.checkRateLimit(ctx, customerID); err != nil {
		return nil, err
	}

	account, err := s.deps.Registry.GetOrCreate(ctx, request.Identity)
	if err != nil {
		return nil, err
	}

	requestID := strings.TrimSpace(request.RequestID)
	if requestID == "" {
		requestID = s.newRequestID()
	} else if err := s.checkRequestUnused(ctx, customerID, requestID); err != nil {
		return nil, err
	}
	correlationID := entity.GenerationCorrelationID(customerID, requestID)

	operation := s.pricing.GenerationOperation(request.RemoveBackground)
	decision := s.deps.Evaluator.Evaluate(account, operation)
	if !decision.Allowed {
		s.metrics.EntitlementDenied(string(decision.DenialReason))
		s.logger.Info("Generation denied", map[string]any{
			"customer_id": customerID,
			"reason":      decision.DenialReason,
			"balance":     decision.Balance,
			"required":    decision.Required,
		})
		return nil, decision.Err()
	}

	image, err := s.generateImage(ctx, prompt)
	if err != nil {
		s.logger.Error("Image generation failed", errs.LogFields(err))
		return nil, err
	}

	result := &entity.GenerationResult{
		Image:       image,
		ContentType: pngContentType,
		BillingMode: decision.BillingMode,
	}

	if operation.RemoveBackground {
		cutout, err := s.removeBackground(ctx, image)
		if err != nil {
			operation = s.pricing.WithoutBackgroundRemoval(operation)
			result.Degraded = true
			s.metrics.BackgroundRemovalDegraded()
			s.logger.Warn("Background removal failed, delivering original image", map[string]any{
				"customer_id": customerID,
				"error":       err.Error(),
			})
		} else {
			result.Image = cutout
			result.BackgroundRemoved = true
		}
	}

	s.storeArtwork(ctx, customerID, requestID, result)

	cost := decision.Cost
	if decision.BillingMode == entity.BillingModePaid {
		cost = operation.NominalCost
	}
	meta := entity.UsageMeta{
		OperationType: operation.UsageType(decision.BillingMode),
		NominalCost:   operation.NominalCost,
		Note:          truncateNote(prompt),
		CorrelationID: correlationID,
	}

	charge, err := s.chargeWithRetry(ctx, customerID, decision.BillingMode, cost, meta)
	if err != nil {
		return nil, err
	}

	result.Charged = charge.Charged
	result.CreditsLeft = charge.NewBalance
	result.CorrelationID = meta.CorrelationID
	return result, nil
}

// checkRequestUnused rejects a client request id that was already billed, before any paid work runs
func (s *Service) checkRequestUnused(ctx context.Context, customerID uint64, requestID string) error {
	used, err := s.deps.Registry.CorrelationUsed(ctx, entity.GenerationCorrelationID(customerID, requestID))
	if err != nil {
		return err
	}
	if used {
		s.logger.Info("Generation request id already used", map[string]any{
			"customer_id": customerID,
			"request_id":  requestID,
		})
		return errs.ErrDuplicateRequest
	}
	return nil
}

func (s *Service) checkRateLimit(ctx context.Context, customerID uint64) error {
	if s.deps.Limiter == nil {
		return nil
	}
	allowed, err := s.deps.Limiter.Allow(ctx, fmt.Sprintf("generate:%d", customerID))
	if err != nil {
		// Limiter outages must not block paying customers
		s.logger.Warn("Rate limiter unavailable", map[string]any{
			"customer_id": customerID,
			"error":       err.Error(),
		})
		return nil
	}
	if !allowed {
		return errs.ErrRateLimited
	}
	return nil
}

func (s *Service) generateImage(ctx context.Context, prompt string) ([]byte, error) {
	callCtx, cancel := s.timeProvider.WithTimeout(ctx, s.config.GenerateTimeout)
	defer cancel()

	start := s.timeProvider.Now()
	image, err := s.deps.Generator.Generate(callCtx, prompt)
	s.metrics.ProviderCall(providerImage, "generate", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, errs.ErrProviderError) {
			err = errs.NewProviderError(providerImage, "generate", 0, err)
		}
		return nil, err
	}
	if len(image) == 0 {
		return nil, errs.NewProviderError(providerImage, "generate", 0, errors.New("empty image"))
	}
	return image, nil
}

func (s *Service) removeBackground(ctx context.Context, image []byte) ([]byte, error) {
	if s.deps.Remover == nil {
		return nil, errors.New("background removal is not configured")
	}

	callCtx, cancel := s.timeProvider.WithTimeout(ctx, s.config.BackgroundRemovalTimeout)
	defer cancel()

	start := s.timeProvider.Now()
	cutout, err := s.deps.Remover.RemoveBackground(callCtx, image)
	s.metrics.ProviderCall(providerBackground, "remove_background", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if len(cutout) == 0 {
		return nil, errors.New("empty background removal result")
	}
	return cutout, nil
}

// storeArtwork uploads the final image; failures leave the inline data URL as the only delivery
func (s *Service) storeArtwork(ctx context.Context, customerID uint64, requestID string, result *entity.GenerationResult) {
	if s.deps.Store == nil {
		return
	}
	key := fmt.Sprintf("artwork/%d/%s.png", customerID, requestID)
	stored, err := s.deps.Store.Put(ctx, key, result.Image, result.ContentType)
	if err != nil {
		s.logger.Warn("Failed to store artwork", map[string]any{
			"customer_id": customerID,
			"key":         key,
			"error":       err.Error(),
		})
		return
	}
	result.ImageKey = stored.Key
	result.ImageURL = stored.URL
}

// chargeWithRetry retries only when the store was unreachable; the correlation id
// turns a retry of an already committed charge into a replay
func (s *Service) chargeWithRetry(
	ctx context.Context,
	customerID uint64,
	mode entity.BillingMode,
	cost int64,
	meta entity.UsageMeta,
) (*entity.ChargeResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.config.ChargeRetryAttempts; attempt++ {
		result, err := s.deps.Charger.Charge(ctx, customerID, mode, cost, meta)
		if err == nil {
			// Only a retry may replay; on the first attempt a concurrent duplicate was billed first
			if result.Replayed && attempt == 1 {
				s.logger.Warn("Concurrent duplicate generation request", map[string]any{
					"customer_id":    customerID,
					"correlation_id": meta.CorrelationID,
				})
				return nil, errs.ErrDuplicateRequest
			}
			return result, nil
		}
		lastErr = err
		if !errs.IsStoreUnavailable(err) || attempt == s.config.ChargeRetryAttempts {
			break
		}

		s.logger.Warn("Charge failed, retrying", map[string]any{
			"customer_id":    customerID,
			"correlation_id": meta.CorrelationID,
			"attempt":        attempt,
			"error":          err.Error(),
		})
		s.timeProvider.Sleep(s.config.ChargeRetryDelay * time.Duration(attempt))
	}

	if errs.IsStoreUnavailable(lastErr) {
		fields := map[string]any{
			"customer_id":           customerID,
			"billing_mode":          mode,
			"cost":                  cost,
			"correlation_id":        meta.CorrelationID,
			"manual_reconciliation": true,
			"error":                 lastErr.Error(),
		}
		s.logger.Error("Charge outcome unknown after paid work completed", fields)
	}
	return nil, lastErr
}

func truncateNote(prompt string) string {
	if utf8.RuneCountInString(prompt) <= maxNoteLength {
		return prompt
	}
	runes := []rune(prompt)
	return string(runes[:maxNoteLength])
}
