package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository implements the credit ledger using GORM.
// Mutations are single conditional UPDATE statements so the row never goes negative.
type AccountRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func modelToAccount(m *model.CreditAccount) *entity.Account {
	return &entity.Account{
		CustomerID:     m.CustomerID,
		Email:          m.Email,
		Balance:        m.Balance,
		TrialUsed:      m.TrialUsed,
		TotalUsed:      m.TotalUsed,
		TotalPurchased: m.TotalPurchased,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func accountToModel(account *entity.Account) *model.CreditAccount {
	return &model.CreditAccount{
		CustomerID:     account.CustomerID,
		Email:          account.Email,
		Balance:        account.Balance,
		TrialUsed:      account.TrialUsed,
		TotalUsed:      account.TotalUsed,
		TotalPurchased: account.TotalPurchased,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error, customerID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Debug("Account not found", map[string]any{
			"customer_id": customerID,
		})
		return errs.ErrAccountNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"customer_id": customerID,
		"error":       err.Error(),
	})
	return r.errorClassifier.MapError(err, operation)
}

// Get retrieves an account by customer id
func (r *AccountRepository) Get(ctx context.Context, customerID uint64) (*entity.Account, error) {
	var accountModel model.CreditAccount
	result := r.db.WithContext(ctx).First(&accountModel, "customer_id = ?", customerID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting account", result.Error, customerID)
	}

	return modelToAccount(&accountModel), nil
}

// InsertIfAbsent inserts the account unless a row for the customer already exists
func (r *AccountRepository) InsertIfAbsent(ctx context.Context, account *entity.Account) (bool, error) {
	accountModel := accountToModel(account)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoNothing: true,
		}).
		Create(accountModel)
	if result.Error != nil {
		return false, r.handleDatabaseError("inserting account", result.Error, account.CustomerID)
	}

	created := result.RowsAffected == 1
	r.logger.Debug("Account insert attempted", map[string]any{
		"customer_id": account.CustomerID,
		"created":     created,
	})
	return created, nil
}

// LockForUpdate reads the account with a row lock on postgres.
// sqlite serializes writers on the database, so the plain read suffices there.
func (r *AccountRepository) LockForUpdate(ctx context.Context, customerID uint64) (*entity.Account, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var accountModel model.CreditAccount
	result := query.First(&accountModel, "customer_id = ?", customerID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking account", result.Error, customerID)
	}

	return modelToAccount(&accountModel), nil
}

// ConditionalDecrement subtracts amount only if the balance covers it
func (r *AccountRepository) ConditionalDecrement(ctx context.Context, customerID uint64, amount int64) (bool, error) {
	if amount <= 0 {
		return false, errs.ErrInvalidCost
	}

	result := r.db.WithContext(ctx).Model(&model.CreditAccount{}).
		Where("customer_id = ? AND balance >= ?", customerID, amount).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance - ?", amount),
			"total_used": gorm.Expr("total_used + ?", amount),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return false, r.handleDatabaseError("decrementing balance", result.Error, customerID)
	}

	applied := result.RowsAffected == 1
	if !applied {
		r.logger.Warn("Conditional decrement affected no rows", map[string]any{
			"customer_id": customerID,
			"amount":      amount,
		})
	}
	return applied, nil
}

// ConsumeTrial flips trial_used from false to true
func (r *AccountRepository) ConsumeTrial(ctx context.Context, customerID uint64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.CreditAccount{}).
		Where("customer_id = ? AND trial_used = ?", customerID, false).
		Updates(map[string]any{
			"trial_used": true,
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return false, r.handleDatabaseError("consuming trial", result.Error, customerID)
	}

	applied := result.RowsAffected == 1
	if !applied {
		r.logger.Warn("Trial already consumed", map[string]any{
			"customer_id": customerID,
		})
	}
	return applied, nil
}

// Increment adds purchased credits to the balance
func (r *AccountRepository) Increment(ctx context.Context, customerID uint64, amount int64) error {
	if amount <= 0 {
		return errs.ErrInvalidCost
	}

	result := r.db.WithContext(ctx).Model(&model.CreditAccount{}).
		Where("customer_id = ?", customerID).
		Updates(map[string]any{
			"balance":         gorm.Expr("balance + ?", amount),
			"total_purchased": gorm.Expr("total_purchased + ?", amount),
			"updated_at":      r.timeProvider.Now(),
		})
	if result.Error != nil {
		return r.handleDatabaseError("incrementing balance", result.Error, customerID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}

	r.logger.Debug("Balance incremented", map[string]any{
		"customer_id": customerID,
		"amount":      amount,
	})
	return nil
}

// UpdateEmail refreshes the informational email
func (r *AccountRepository) UpdateEmail(ctx context.Context, customerID uint64, email string) error {
	result := r.db.WithContext(ctx).Model(&model.CreditAccount{}).
		Where("customer_id = ?", customerID).
		Updates(map[string]any{
			"email":      email,
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating email", result.Error, customerID)
	}
	return nil
}
