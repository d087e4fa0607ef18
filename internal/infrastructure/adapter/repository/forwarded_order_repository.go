package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForwardedOrderRepository implements print order claims using GORM
type ForwardedOrderRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewForwardedOrderRepository creates a new ForwardedOrderRepository instance
func NewForwardedOrderRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *ForwardedOrderRepository {
	return &ForwardedOrderRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func modelToForwardedOrder(m *model.ForwardedOrder) *entity.ForwardedOrder {
	return &entity.ForwardedOrder{
		ExternalID:   m.ExternalID,
		PrintOrderID: m.PrintOrderID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Claim inserts the external id unless it already exists
func (r *ForwardedOrderRepository) Claim(ctx context.Context, externalID string) (bool, *entity.ForwardedOrder, error) {
	now := r.timeProvider.Now()
	claim := &model.ForwardedOrder{ExternalID: externalID, CreatedAt: now, UpdatedAt: now}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(claim)
	if result.Error != nil {
		return false, nil, r.handleDatabaseError("claiming forwarded order", result.Error, externalID)
	}
	if result.RowsAffected == 1 {
		r.logger.Debug("Forwarded order claimed", map[string]any{
			"external_id": externalID,
		})
		return true, nil, nil
	}

	var existing model.ForwardedOrder
	if err := r.db.WithContext(ctx).First(&existing, "external_id = ?", externalID).Error; err != nil {
		return false, nil, r.handleDatabaseError("reading forwarded order", err, externalID)
	}
	return false, modelToForwardedOrder(&existing), nil
}

// Complete stores the print order id on a claim
func (r *ForwardedOrderRepository) Complete(ctx context.Context, externalID, printOrderID string) error {
	result := r.db.WithContext(ctx).Model(&model.ForwardedOrder{}).
		Where("external_id = ?", externalID).
		Updates(map[string]any{
			"print_order_id": printOrderID,
			"updated_at":     r.timeProvider.Now(),
		})
	if result.Error != nil {
		return r.handleDatabaseError("completing forwarded order", result.Error, externalID)
	}
	return nil
}

// Release drops a claim whose print order was never placed
func (r *ForwardedOrderRepository) Release(ctx context.Context, externalID string) error {
	result := r.db.WithContext(ctx).
		Where("external_id = ? AND print_order_id = ''", externalID).
		Delete(&model.ForwardedOrder{})
	if result.Error != nil {
		return r.handleDatabaseError("releasing forwarded order", result.Error, externalID)
	}
	return nil
}

func (r *ForwardedOrderRepository) handleDatabaseError(operation string, err error, externalID string) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"external_id": externalID,
		"error":       err.Error(),
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the claim vanished between insert and read; a retry will take it
		return fmt.Errorf("%w: %s: claim released concurrently", errs.ErrStoreUnavailable, operation)
	}
	return r.errorClassifier.MapError(err, operation)
}
