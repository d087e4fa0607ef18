package persistence

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// UsageRepository is the append-only usage log
type UsageRepository interface {
	// Append stores a usage record
	//
	// Possible errors:
	// - ErrDuplicateCorrelation: If a record with the same correlation id exists
	// - ErrStoreUnavailable: If the store cannot be reached
	Append(ctx context.Context, record *entity.UsageRecord) error

	// ExistsByCorrelationID checks whether an operation with this idempotency key was already recorded
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	ExistsByCorrelationID(ctx context.Context, correlationID string) (bool, error)

	// ListByCustomer returns the most recent records of a customer, newest first
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	ListByCustomer(ctx context.Context, customerID uint64, limit int) ([]*entity.UsageRecord, error)
}
