package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/idlink-io/idlink/internal/domain/account"
)

// ConflictResolver decides whether a signup with an asserted email may
// proceed. Accounts sharing the email that hold no identity link for the
// provider block the signup; accounts already linked to the provider are not a
// conflict, since a pre-existing link routes the attempt to the login branch
// before this check runs.
type ConflictResolver struct {
	directory account.Directory
}

func NewConflictResolver(directory account.Directory) *ConflictResolver {
	return &ConflictResolver{directory: directory}
}

// FindBlockingAccounts returns the accounts that block a signup for the email.
// An empty result means the signup may proceed.
func (r *ConflictResolver) FindBlockingAccounts(ctx context.Context, email, provider string) ([]*account.Account, error) {
	if email == "" {
		return nil, nil
	}
	return r.directory.FindUnlinkedAccountsByEmail(ctx, email, provider)
}

// RejectionMessage formats the user-facing remediation message for a blocked
// signup. Identifiers are joined in the order the directory returned them.
func (r *ConflictResolver) RejectionMessage(email, provider string, blocking []*account.Account) string {
	ids := make([]string, 0, len(blocking))
	for _, acc := range blocking {
		ids = append(ids, fmt.Sprintf("%d", acc.ID))
	}

	return fmt.Sprintf(
		"Your email id %q is already used in the following account(s): [ %s ]. "+
			"Please log into your old account and connect %s in it instead. "+
			"Use 'Forgot Password' option if you do not remember password of old account",
		email, strings.Join(ids, ","), provider,
	)
}
