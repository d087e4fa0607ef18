package usecase

import "github.com/ownaimerch/merch-credits/internal/domain/entity"

// EntitlementEvaluator decides whether an operation may run and how it is billed.
// It never mutates the ledger.
type EntitlementEvaluator interface {
	Evaluate(account *entity.Account, operation entity.Operation) entity.Decision
}
