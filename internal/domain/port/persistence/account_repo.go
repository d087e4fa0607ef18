package persistence

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// AccountRepository is the ledger store primitive beneath the registry, the charge executor and the reconciler.
// Every method touches a single row and is linearizable per customer.
type AccountRepository interface {
	// Get retrieves an account by customer id
	//
	// Possible errors:
	// - ErrAccountNotFound: If no row exists for the customer
	// - ErrStoreUnavailable: If the store cannot be reached
	Get(ctx context.Context, customerID uint64) (*entity.Account, error)

	// InsertIfAbsent inserts the account unless a row for the customer already exists.
	// Returns true when this call created the row.
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	InsertIfAbsent(ctx context.Context, account *entity.Account) (bool, error)

	// LockForUpdate reads the account and holds a row lock until the surrounding transaction ends
	//
	// Possible errors:
	// - ErrAccountNotFound: If no row exists for the customer
	// - ErrStoreUnavailable: If the store cannot be reached
	LockForUpdate(ctx context.Context, customerID uint64) (*entity.Account, error)

	// ConditionalDecrement subtracts amount only if the balance covers it.
	// Returns false when no row was affected.
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	ConditionalDecrement(ctx context.Context, customerID uint64, amount int64) (bool, error)

	// ConsumeTrial flips trial_used from false to true.
	// Returns false when the trial was already consumed.
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	ConsumeTrial(ctx context.Context, customerID uint64) (bool, error)

	// Increment adds purchased credits to the balance
	//
	// Possible errors:
	// - ErrAccountNotFound: If no row exists for the customer
	// - ErrStoreUnavailable: If the store cannot be reached
	Increment(ctx context.Context, customerID uint64, amount int64) error

	// UpdateEmail refreshes the informational email
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store cannot be reached
	UpdateEmail(ctx context.Context, customerID uint64, email string) error
}
