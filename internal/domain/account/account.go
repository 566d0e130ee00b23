package account

import (
	"fmt"
	"time"

	"github.com/idlink-io/idlink/internal/domain/account/valueobjects"
)

// Account is the long-lived root entity of the directory. It owns at most one
// ExternalIdentity per provider and outlives any single provider binding.
type Account struct {
	ID            uint
	Username      string
	FirstName     string
	LastName      string
	Email         string
	ReferralCode  string
	PhotoURL      string
	MarketingMeta map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount creates an account with derived defaults already applied
// (disambiguated username, split name, referral code).
func NewAccount(username, firstName, lastName, email, referralCode, photoURL string, marketingMeta map[string]string) (*Account, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if referralCode == "" {
		return nil, fmt.Errorf("referral code is required")
	}

	now := time.Now()
	return &Account{
		Username:      username,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		ReferralCode:  referralCode,
		PhotoURL:      photoURL,
		MarketingMeta: marketingMeta,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// DisplayName returns the account's title-cased full name, falling back to the
// username for accounts that signed up without a usable profile name.
func (a *Account) DisplayName() string {
	full := a.FirstName
	if a.LastName != "" {
		if full != "" {
			full += " "
		}
		full += a.LastName
	}
	if full == "" {
		return a.Username
	}
	return valueobjects.TitleCase(full)
}

// DisplayInfo represents account information for display purposes
type DisplayInfo struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	ReferralCode string `json:"referral_code"`
}

// GetDisplayInfo returns formatted display information
func (a *Account) GetDisplayInfo() DisplayInfo {
	return DisplayInfo{
		ID:           a.ID,
		Username:     a.Username,
		DisplayName:  a.DisplayName(),
		Email:        a.Email,
		PhotoURL:     a.PhotoURL,
		ReferralCode: a.ReferralCode,
	}
}
