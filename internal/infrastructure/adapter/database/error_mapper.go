package database

import (
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/repository"
)

// ErrorMapper maps database errors to ledger errors
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to ErrStoreUnavailable, ErrAccountNotFound or ErrConstraintViolation
func (m *ErrorMapper) MapError(err error, operation string) error {
	return m.classifier.MapError(err, operation)
}

// IsTransient reports whether retrying the operation may succeed
func (m *ErrorMapper) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return m.classifier.IsTransientError(err) || m.classifier.IsLockError(err)
}
