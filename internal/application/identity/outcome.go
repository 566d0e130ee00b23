package identity

import "github.com/idlink-io/idlink/internal/domain/account"

// OutcomeKind tags the terminal state of a reconciliation attempt.
type OutcomeKind string

const (
	OutcomeLinkedToCurrentAccount OutcomeKind = "linked_to_current_account"
	OutcomeLoggedIn               OutcomeKind = "logged_in"
	OutcomeSignedUp               OutcomeKind = "signed_up"
	OutcomeRejected               OutcomeKind = "rejected"
)

// Outcome is the sole output contract of the reconciler. Every branch ends in
// exactly one outcome; there is no partial or pending state exposed.
type Outcome struct {
	Kind    OutcomeKind
	Account *account.Account // set for every kind except Rejected
	Reason  string           // set only for Rejected
}

func LinkedToCurrentAccount(acc *account.Account) *Outcome {
	return &Outcome{Kind: OutcomeLinkedToCurrentAccount, Account: acc}
}

func LoggedIn(acc *account.Account) *Outcome {
	return &Outcome{Kind: OutcomeLoggedIn, Account: acc}
}

func SignedUp(acc *account.Account) *Outcome {
	return &Outcome{Kind: OutcomeSignedUp, Account: acc}
}

func Rejected(reason string) *Outcome {
	return &Outcome{Kind: OutcomeRejected, Reason: reason}
}

// IsRejected reports whether the attempt ended without an authenticated account.
func (o *Outcome) IsRejected() bool {
	return o.Kind == OutcomeRejected
}

// IsNewSignup reports whether the attempt provisioned a new account.
func (o *Outcome) IsNewSignup() bool {
	return o.Kind == OutcomeSignedUp
}
