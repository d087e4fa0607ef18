package repository

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// UsageRepository implements the append-only usage log using GORM
type UsageRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUsageRepository creates a new UsageRepository instance
func NewUsageRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UsageRepository {
	return &UsageRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func usageToModel(record *entity.UsageRecord) *model.UsageRecord {
	m := &model.UsageRecord{
		CustomerID:    record.CustomerID,
		OperationType: string(record.OperationType),
		Cost:          record.Cost,
		NominalCost:   record.NominalCost,
		BillingMode:   string(record.BillingMode),
		Note:          record.Note,
		CreatedAt:     record.CreatedAt,
	}
	if record.CorrelationID != "" {
		correlationID := record.CorrelationID
		m.CorrelationID = &correlationID
	}
	return m
}

func modelToUsage(m *model.UsageRecord) *entity.UsageRecord {
	record := &entity.UsageRecord{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		OperationType: entity.OperationType(m.OperationType),
		Cost:          m.Cost,
		NominalCost:   m.NominalCost,
		BillingMode:   entity.BillingMode(m.BillingMode),
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
	if m.CorrelationID != nil {
		record.CorrelationID = *m.CorrelationID
	}
	return record
}

// Append stores a usage record
func (r *UsageRepository) Append(ctx context.Context, record *entity.UsageRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.timeProvider.Now()
	}
	usageModel := usageToModel(record)

	if err := r.db.WithContext(ctx).Create(usageModel).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate usage correlation id", map[string]any{
				"customer_id":    record.CustomerID,
				"correlation_id": record.CorrelationID,
			})
			return errs.ErrDuplicateCorrelation
		}
		r.logger.Error("Failed to append usage record", map[string]any{
			"customer_id":    record.CustomerID,
			"correlation_id": record.CorrelationID,
			"error":          err.Error(),
		})
		return r.errorClassifier.MapError(err, "appending usage record")
	}

	record.ID = usageModel.ID
	r.logger.Debug("Usage record appended", map[string]any{
		"customer_id":    record.CustomerID,
		"operation_type": record.OperationType,
		"cost":           record.Cost,
		"billing_mode":   record.BillingMode,
	})
	return nil
}

// ExistsByCorrelationID checks whether an operation with this idempotency key was already recorded
func (r *UsageRepository) ExistsByCorrelationID(ctx context.Context, correlationID string) (bool, error) {
	if correlationID == "" {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.UsageRecord{}).
		Where("correlation_id = ?", correlationID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Failed to check usage correlation id", map[string]any{
			"correlation_id": correlationID,
			"error":          err.Error(),
		})
		return false, r.errorClassifier.MapError(err, "checking correlation id")
	}

	return count > 0, nil
}

// ListByCustomer returns the most recent records of a customer, newest first
func (r *UsageRepository) ListByCustomer(ctx context.Context, customerID uint64, limit int) ([]*entity.UsageRecord, error) {
	var models []model.UsageRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		r.logger.Error("Failed to list usage records", map[string]any{
			"customer_id": customerID,
			"error":       err.Error(),
		})
		return nil, r.errorClassifier.MapError(err, "listing usage records")
	}

	records := make([]*entity.UsageRecord, 0, len(models))
	for i := range models {
		records = append(records, modelToUsage(&models[i]))
	}
	return records, nil
}
