package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/model"
	timeprovider "github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/time"
)

// TestDBManager provides a migrated in-memory sqlite ledger for tests
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager connects to a private in-memory database and migrates it; closed on cleanup
func NewTestDBManager(t testing.TB, logger coreport.Logger) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewRealTimeProvider()
	config := &Config{
		Driver:        DriverSQLite,
		Database:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		SlowThreshold: time.Second,
		LogLevel:      "silent",
		RetryAttempts: 1,
		RetryDelay:    10 * time.Millisecond,
	}

	manager := NewManager(config, logger, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// CreateTestAccount inserts an account row directly
func (m *TestDBManager) CreateTestAccount(t testing.TB, customerID uint64, balance int64, trialUsed bool) {
	t.Helper()

	now := m.TimeProvider.Now()
	account := model.CreditAccount{
		CustomerID: customerID,
		Balance:    balance,
		TrialUsed:  trialUsed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.Manager.DB().Create(&account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
}

// GetTestAccount reads an account row directly
func (m *TestDBManager) GetTestAccount(t testing.TB, customerID uint64) *entity.Account {
	t.Helper()

	account, err := m.Manager.AccountRepository().Get(context.Background(), customerID)
	if err != nil {
		t.Fatalf("Failed to read test account: %v", err)
	}
	return account
}

// CountUsage counts usage rows of a customer
func (m *TestDBManager) CountUsage(t testing.TB, customerID uint64) int64 {
	t.Helper()

	var count int64
	if err := m.Manager.DB().Model(&model.UsageRecord{}).Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count usage records: %v", err)
	}
	return count
}
