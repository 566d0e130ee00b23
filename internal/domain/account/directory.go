package account

import "context"

// Directory defines the persistent store of Account and ExternalIdentity
// records. Each call is an atomic request/response operation; the
// reconciliation flow relies on the directory's own uniqueness constraints to
// arbitrate concurrent attempts rather than serializing them itself.
type Directory interface {
	// FindIdentity resolves (provider, externalID) to an identity record.
	// Returns (nil, nil) when no record exists.
	FindIdentity(ctx context.Context, provider, externalID string) (*ExternalIdentity, error)

	// FindUnlinkedAccountsByEmail returns accounts with the exact email that
	// hold no identity link for the given provider. Iteration order follows
	// the underlying store and is not guaranteed stable.
	FindUnlinkedAccountsByEmail(ctx context.Context, email, provider string) ([]*Account, error)

	// CountAccountsByUsername returns the number of accounts owning the exact username.
	CountAccountsByUsername(ctx context.Context, username string) (int64, error)

	// CreateAccountWithIdentity persists the account and its owned identity as
	// a single atomic unit: both succeed or both fail. A uniqueness violation
	// (username, email, referral code, or identity race) fails the whole unit.
	CreateAccountWithIdentity(ctx context.Context, acc *Account, identity *ExternalIdentity) error

	// UpsertIdentity creates or refreshes the (provider, externalID) record.
	// Re-running the same upsert is a no-op that refreshes token material,
	// never a duplicate-key error.
	UpsertIdentity(ctx context.Context, identity *ExternalIdentity) error

	// UpdateIdentity persists mutations of an existing identity record.
	UpdateIdentity(ctx context.Context, identity *ExternalIdentity) error

	// LoadAccount retrieves an account by ID. Returns a not-found error when
	// the record is missing.
	LoadAccount(ctx context.Context, id uint) (*Account, error)
}
