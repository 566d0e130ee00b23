package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/idlink-io/idlink/internal/shared/constants"
)

// AccountModel represents the database persistence model for accounts.
// This is the anti-corruption layer between domain and database.
//
// Email carries no unique index on purpose: uniqueness only holds among
// accounts with a linked identity and is enforced by the reconciliation flow,
// not the schema.
type AccountModel struct {
	ID            uint    `gorm:"primarykey"`
	Username      string  `gorm:"uniqueIndex;not null;size:100"`
	FirstName     string  `gorm:"size:100"`
	LastName      string  `gorm:"size:100"`
	Email         *string `gorm:"index:idx_accounts_email;size:255"`
	ReferralCode  string  `gorm:"uniqueIndex;not null;size:16"`
	PhotoURL      *string `gorm:"size:500"`
	MarketingMeta datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return constants.TableAccounts
}
