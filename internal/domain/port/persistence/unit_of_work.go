package persistence

import (
	"context"
)

// UnitOfWork coordinates ledger mutations and usage appends in one store transaction
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetAccountRepository returns an account repository bound to the current transaction
	GetAccountRepository(ctx context.Context) AccountRepository

	// GetUsageRepository returns a usage repository bound to the current transaction
	GetUsageRepository(ctx context.Context) UsageRepository
}
