package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/idlink-io/idlink/internal/shared/constants"
)

// ExternalIdentityModel represents the database persistence model for
// provider identity bindings. The composite unique index on
// (provider, external_id) is the constraint that arbitrates concurrent
// reconciliation attempts for the same external account.
type ExternalIdentityModel struct {
	ID                uint   `gorm:"primarykey"`
	Provider          string `gorm:"not null;size:50;uniqueIndex:idx_provider_external"`
	ExternalID        string `gorm:"not null;size:255;uniqueIndex:idx_provider_external;column:external_id"`
	AccessToken       string `gorm:"size:512"`
	AccessTokenSecret string `gorm:"size:512"`
	DisplayHandle     string `gorm:"size:100"`
	AccountID         uint   `gorm:"not null;index:idx_identity_account_id"`
	RawAttributes     datatypes.JSON
	LastLoginAt       *time.Time
	LoginCount        uint `gorm:"default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (ExternalIdentityModel) TableName() string {
	return constants.TableExternalIdentities
}
