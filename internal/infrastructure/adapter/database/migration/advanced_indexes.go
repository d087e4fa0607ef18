package migration

import (
	"context"

	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes and storage settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateAdvancedIndexes creates indexes that only PostgreSQL supports
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	statements := []struct {
		name string
		sql  string
	}{
		{
			// Usage rows are append-only and arrive in time order
			name: "idx_usage_created_at_brin",
			sql: `CREATE INDEX IF NOT EXISTS idx_usage_created_at_brin
				ON credit_usage_records USING BRIN (created_at)
				WITH (pages_per_range = 32)`,
		},
		{
			name: "idx_usage_grants",
			sql: `CREATE INDEX IF NOT EXISTS idx_usage_grants
				ON credit_usage_records (customer_id, created_at)
				WHERE billing_mode = 'GRANT'`,
		},
		{
			name: "idx_accounts_trial_available",
			sql: `CREATE INDEX IF NOT EXISTS idx_accounts_trial_available
				ON credit_accounts (customer_id)
				WHERE trial_used = false`,
		},
	}

	db := m.db.WithContext(ctx)
	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

// CreatePerformanceTweaks applies non-critical PostgreSQL storage settings; failures are only logged
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	db := m.db.WithContext(ctx)

	// Balance updates rewrite the row; free space keeps them HOT
	if err := db.Exec(`ALTER TABLE credit_accounts SET (fillfactor = 80)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for credit_accounts", map[string]any{
			"error": err.Error(),
		})
	}

	if err := db.Exec(`ALTER TABLE credit_usage_records ALTER COLUMN customer_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for customer_id", map[string]any{
			"error": err.Error(),
		})
	}
}
