package model

import (
	"time"
)

// CreditAccount represents the database model for a customer's credit ledger row
type CreditAccount struct {
	CustomerID     uint64    `gorm:"primaryKey;autoIncrement:false"`
	Email          string    `gorm:"size:320"`
	Balance        int64     `gorm:"not null;default:0;check:chk_credit_accounts_balance,balance >= 0"`
	TrialUsed      bool      `gorm:"not null;default:false"`
	TotalUsed      int64     `gorm:"not null;default:0"`
	TotalPurchased int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for CreditAccount
func (CreditAccount) TableName() string {
	return "credit_accounts"
}
