package account

import (
	"fmt"
	"time"
)

// ExternalIdentity binds a third-party provider account to an Account.
// (Provider, ExternalID) is globally unique: at most one record per external
// account per provider. Once linked it is owned by exactly one Account and is
// never deleted by the reconciliation flow.
type ExternalIdentity struct {
	ID                uint
	Provider          string
	ExternalID        string
	AccessToken       string
	AccessTokenSecret string
	DisplayHandle     string
	AccountID         uint // zero until linked
	RawAttributes     map[string]any
	LastLoginAt       *time.Time
	LoginCount        uint
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewExternalIdentity(provider, externalID, accessToken, accessTokenSecret, displayHandle string) (*ExternalIdentity, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if externalID == "" {
		return nil, fmt.Errorf("external ID is required")
	}

	now := time.Now()
	return &ExternalIdentity{
		Provider:          provider,
		ExternalID:        externalID,
		AccessToken:       accessToken,
		AccessTokenSecret: accessTokenSecret,
		DisplayHandle:     displayHandle,
		LoginCount:        1,
		LastLoginAt:       &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// IsLinked reports whether the identity is owned by an account.
func (e *ExternalIdentity) IsLinked() bool {
	return e.AccountID != 0
}

// LinkTo assigns ownership of the identity to the given account.
func (e *ExternalIdentity) LinkTo(accountID uint) error {
	if accountID == 0 {
		return fmt.Errorf("account ID is required")
	}
	if e.AccountID != 0 && e.AccountID != accountID {
		return fmt.Errorf("identity already linked to account %d", e.AccountID)
	}
	e.AccountID = accountID
	e.UpdatedAt = time.Now()
	return nil
}

// RefreshTokens replaces the stored provider token material. Every successful
// authentication with the same external account refreshes tokens.
func (e *ExternalIdentity) RefreshTokens(accessToken, accessTokenSecret string) {
	e.AccessToken = accessToken
	e.AccessTokenSecret = accessTokenSecret
	e.UpdatedAt = time.Now()
}

// RecordLogin updates the login bookkeeping fields.
func (e *ExternalIdentity) RecordLogin() {
	e.LoginCount++
	now := time.Now()
	e.LastLoginAt = &now
	e.UpdatedAt = now
}
