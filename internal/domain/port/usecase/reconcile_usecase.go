package usecase

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// CreditReconciler applies purchase events exactly once per order
type CreditReconciler interface {
	// Reconcile grants the credits of a purchase event. Skips are results, not errors.
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached; the event must be redelivered
	Reconcile(ctx context.Context, event entity.PurchaseEvent) (*entity.ReconcileResult, error)
}
