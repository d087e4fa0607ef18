package repository

import (
	"context"
	"errors"
	"testing"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorClassifier(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantErr  error
	}{
		{"Postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_usage_correlation_id" (SQLSTATE 23505)`), DuplicateKeyError, errs.ErrConstraintViolation},
		{"Sqlite unique", errors.New("UNIQUE constraint failed: credit_usage_records.correlation_id"), DuplicateKeyError, errs.ErrConstraintViolation},
		{"Translated unique", gorm.ErrDuplicatedKey, DuplicateKeyError, errs.ErrConstraintViolation},
		{"Sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), LockError, errs.ErrStoreUnavailable},
		{"Connection refused", errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"), TransientError, errs.ErrStoreUnavailable},
		{"Check constraint", errors.New("CHECK constraint failed: chk_credit_accounts_balance"), ConstraintError, errs.ErrConstraintViolation},
		{"Not found", gorm.ErrRecordNotFound, "", errs.ErrAccountNotFound},
		{"Canceled", context.Canceled, "", errs.ErrStoreUnavailable},
		{"Unknown", errors.New("no such function: foo"), "", errs.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, classifier.Classify(tt.err))
			assert.ErrorIs(t, classifier.MapError(tt.err, "test"), tt.wantErr)
		})
	}

	assert.NoError(t, classifier.MapError(nil, "test"))
}
