package identity

import (
	"context"
	"fmt"

	"github.com/idlink-io/idlink/internal/domain/account"
	"github.com/idlink-io/idlink/internal/domain/account/valueobjects"
	"github.com/idlink-io/idlink/internal/shared/errors"
	"github.com/idlink-io/idlink/internal/shared/logger"
)

const (
	msgAuthenticationFailed = "authentication failed"
	msgLinkedAccountMissing = "could not retrieve existing linked account"
)

// ReconcileCommand carries one inbound assertion: the confirmed external
// identity claim plus the optional session principal of the request.
type ReconcileCommand struct {
	// SessionAccountID is the currently authenticated account, zero when the
	// request carries no session principal. Read-only input, never mutated.
	SessionAccountID uint
	Provider         string
	Token            TokenMaterial
	Profile          Profile
	MarketingMeta    map[string]string
}

// ReconcileUseCase classifies an inbound assertion into one of four branches:
// link-conflict, link, login, or signup. It issues directory operations
// sequentially, holds no state between assertions, and normalizes every
// failure into a Rejected outcome; no error escapes to the caller.
type ReconcileUseCase struct {
	directory account.Directory
	conflicts *ConflictResolver
	usernames *UsernameDisambiguator
	analytics Analytics
	telemetry Telemetry
	marker    SessionMarker
	logger    logger.Interface
}

func NewReconcileUseCase(
	directory account.Directory,
	conflicts *ConflictResolver,
	usernames *UsernameDisambiguator,
	analytics Analytics,
	telemetry Telemetry,
	marker SessionMarker,
	logger logger.Interface,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		directory: directory,
		conflicts: conflicts,
		usernames: usernames,
		analytics: analytics,
		telemetry: telemetry,
		marker:    marker,
		logger:    logger,
	}
}

// Execute drives the reconciliation state machine for one assertion.
func (uc *ReconcileUseCase) Execute(ctx context.Context, cmd ReconcileCommand) *Outcome {
	existing, err := uc.directory.FindIdentity(ctx, cmd.Provider, cmd.Profile.ExternalID)
	if err != nil {
		return uc.fault(err)
	}

	if cmd.SessionAccountID != 0 {
		if existing != nil && existing.AccountID != cmd.SessionAccountID {
			uc.logger.Infow("link rejected, identity owned by another account",
				"provider", cmd.Provider, "account_id", existing.AccountID)
			return Rejected(fmt.Sprintf("external %s account is already linked to account %d",
				cmd.Provider, existing.AccountID))
		}
		return uc.link(ctx, cmd)
	}

	if existing != nil {
		return uc.login(ctx, cmd, existing)
	}

	return uc.signup(ctx, cmd)
}

// link attaches the external identity to the session account. Re-running the
// same link is an idempotent upsert that refreshes token material.
func (uc *ReconcileUseCase) link(ctx context.Context, cmd ReconcileCommand) *Outcome {
	identity, err := account.NewExternalIdentity(
		cmd.Provider,
		cmd.Profile.ExternalID,
		cmd.Token.AccessToken,
		cmd.Token.AccessTokenSecret,
		cmd.Profile.DisplayHandle,
	)
	if err != nil {
		return uc.fault(err)
	}
	identity.RawAttributes = cmd.Profile.RawAttributes
	if err := identity.LinkTo(cmd.SessionAccountID); err != nil {
		return uc.fault(err)
	}

	if err := uc.directory.UpsertIdentity(ctx, identity); err != nil {
		return uc.fault(err)
	}

	acc, err := uc.directory.LoadAccount(ctx, cmd.SessionAccountID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return Rejected(msgLinkedAccountMissing)
		}
		return uc.fault(err)
	}

	uc.logger.Infow("external identity linked",
		"provider", cmd.Provider, "account_id", acc.ID)
	return LinkedToCurrentAccount(acc)
}

// login loads the account owning an already-linked identity and refreshes the
// stored token material.
func (uc *ReconcileUseCase) login(ctx context.Context, cmd ReconcileCommand, existing *account.ExternalIdentity) *Outcome {
	acc, err := uc.directory.LoadAccount(ctx, existing.AccountID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return Rejected(msgLinkedAccountMissing)
		}
		return uc.fault(err)
	}

	existing.RefreshTokens(cmd.Token.AccessToken, cmd.Token.AccessTokenSecret)
	existing.RecordLogin()
	if err := uc.directory.UpdateIdentity(ctx, existing); err != nil {
		// Token refresh is bookkeeping; a stale token must not block the login.
		uc.logger.Warnw("failed to refresh identity tokens",
			"error", err, "provider", cmd.Provider, "account_id", acc.ID)
	}

	uc.logger.Infow("login via linked identity",
		"provider", cmd.Provider, "account_id", acc.ID)
	return LoggedIn(acc)
}

// signup provisions a new account from the asserted profile, deriving default
// fields and creating account plus identity as one atomic unit.
func (uc *ReconcileUseCase) signup(ctx context.Context, cmd ReconcileCommand) *Outcome {
	if cmd.Profile.Email != "" {
		blocking, err := uc.conflicts.FindBlockingAccounts(ctx, cmd.Profile.Email, cmd.Provider)
		if err != nil {
			return uc.fault(err)
		}
		if len(blocking) > 0 {
			uc.logger.Infow("signup rejected, email already in use",
				"provider", cmd.Provider, "blocking_accounts", len(blocking))
			return Rejected(uc.conflicts.RejectionMessage(cmd.Profile.Email, cmd.Provider, blocking))
		}
	}

	name, err := valueobjects.NewDisplayName(cmd.Profile.DisplayName)
	if err != nil {
		return uc.fault(fmt.Errorf("malformed profile: %w", err))
	}
	firstName, lastName := name.Split()

	username, err := uc.usernames.Resolve(ctx, cmd.Profile.DisplayHandle, cmd.Provider, uc.usernameTaken)
	if err != nil {
		return uc.fault(err)
	}

	seed := cmd.Profile.Email
	if seed == "" {
		seed = cmd.Profile.DisplayHandle
	}

	acc, err := account.NewAccount(
		username,
		firstName,
		lastName,
		cmd.Profile.Email,
		account.GenerateReferralCode(seed),
		cmd.Profile.AvatarURL,
		cmd.MarketingMeta,
	)
	if err != nil {
		return uc.fault(err)
	}

	identity, err := account.NewExternalIdentity(
		cmd.Provider,
		cmd.Profile.ExternalID,
		cmd.Token.AccessToken,
		cmd.Token.AccessTokenSecret,
		cmd.Profile.DisplayHandle,
	)
	if err != nil {
		return uc.fault(err)
	}
	identity.RawAttributes = cmd.Profile.RawAttributes

	if err := uc.directory.CreateAccountWithIdentity(ctx, acc, identity); err != nil {
		// A uniqueness violation here is an expected race outcome, not a
		// fault: concurrent signups are arbitrated by the directory's
		// constraints. The email-conflict message is not raised again.
		if errors.IsDuplicateError(err) || errors.IsConflictError(err) {
			uc.logger.Infow("signup lost creation race",
				"error", err, "provider", cmd.Provider, "username", username)
			return Rejected(msgAuthenticationFailed)
		}
		return uc.fault(err)
	}

	uc.recordSignup(ctx, cmd.Provider)

	uc.logger.Infow("account provisioned from external identity",
		"provider", cmd.Provider, "account_id", acc.ID, "username", acc.Username)
	return SignedUp(acc)
}

func (uc *ReconcileUseCase) usernameTaken(ctx context.Context, username string) (bool, error) {
	count, err := uc.directory.CountAccountsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// recordSignup emits the signup side effects. They are observable but not part
// of the reconciliation contract; their failure never changes the outcome.
func (uc *ReconcileUseCase) recordSignup(ctx context.Context, provider string) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Warnw("signup side effect panicked", "panic", r)
		}
	}()
	uc.analytics.RecordEvent("signup", "successful", provider)
	uc.marker.MarkNewSignup(ctx)
}

// fault handles failures outside the modeled rejections: the raw detail is
// surfaced to the caller and captured via telemetry, with no automatic retry.
func (uc *ReconcileUseCase) fault(err error) *Outcome {
	uc.telemetry.CaptureException(err)
	uc.logger.Errorw("reconciliation fault", "error", err)
	return Rejected(err.Error())
}
