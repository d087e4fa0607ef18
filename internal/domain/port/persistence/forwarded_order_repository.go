package persistence

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// ForwardedOrderRepository records which commerce orders were handed to the print provider,
// so redelivered webhooks never place a second print order
type ForwardedOrderRepository interface {
	// Claim inserts the external id unless it already exists.
	// Returns true when this call took the claim, otherwise the existing record.
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	Claim(ctx context.Context, externalID string) (bool, *entity.ForwardedOrder, error)

	// Complete stores the print order id on a claim
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	Complete(ctx context.Context, externalID, printOrderID string) error

	// Release drops a claim whose print order was never placed
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	Release(ctx context.Context, externalID string) error
}
