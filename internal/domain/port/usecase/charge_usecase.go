package usecase

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// ChargeExecutor is the only writer that decrements balances
type ChargeExecutor interface {
	// Charge atomically applies a decided charge and appends its usage record.
	//
	// Possible errors:
	// - ErrRaceLost: If the conditional update affected no rows
	// - ErrInvalidBillingMode, ErrInvalidCost: If the charge request is malformed
	// - ErrStoreUnavailable: If the store cannot be reached
	Charge(ctx context.Context, customerID uint64, billingMode entity.BillingMode, cost int64, meta entity.UsageMeta) (*entity.ChargeResult, error)
}
