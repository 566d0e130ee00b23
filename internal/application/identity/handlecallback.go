package identity

import (
	"context"
	"fmt"

	"github.com/idlink-io/idlink/internal/shared/logger"
)

type HandleCallbackCommand struct {
	Provider string
	Code     string
	State    string
	// SessionAccountID is the optional session principal forwarded by the
	// transport layer, zero when the request is unauthenticated.
	SessionAccountID uint
	MarketingMeta    map[string]string
}

// HandleCallbackUseCase completes the handshake for a provider callback and
// hands the resulting assertion to the reconciler. Handshake-stage failures
// (bad state, failed exchange) are returned as errors; everything after a
// confirmed assertion is expressed through the reconciliation outcome.
type HandleCallbackUseCase struct {
	clients    ClientRegistry
	initiator  *InitiateLoginUseCase
	reconciler *ReconcileUseCase
	logger     logger.Interface
}

func NewHandleCallbackUseCase(
	clients ClientRegistry,
	initiator *InitiateLoginUseCase,
	reconciler *ReconcileUseCase,
	logger logger.Interface,
) *HandleCallbackUseCase {
	return &HandleCallbackUseCase{
		clients:    clients,
		initiator:  initiator,
		reconciler: reconciler,
		logger:     logger,
	}
}

func (uc *HandleCallbackUseCase) Execute(ctx context.Context, cmd HandleCallbackCommand) (*Outcome, error) {
	client, ok := uc.clients.Lookup(cmd.Provider)
	if !ok {
		return nil, fmt.Errorf("unsupported OAuth provider: %s", cmd.Provider)
	}

	stateInfo, err := uc.initiator.VerifyStateAndGetVerifier(ctx, cmd.State)
	if err != nil {
		return nil, err
	}

	token, err := client.ExchangeCode(ctx, cmd.Code, stateInfo.CodeVerifier)
	if err != nil {
		uc.logger.Errorw("failed to exchange code", "error", err, "provider", cmd.Provider)
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	profile, err := client.GetProfile(ctx, token)
	if err != nil {
		uc.logger.Errorw("failed to get profile", "error", err, "provider", cmd.Provider)
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	outcome := uc.reconciler.Execute(ctx, ReconcileCommand{
		SessionAccountID: cmd.SessionAccountID,
		Provider:         cmd.Provider,
		Token:            token,
		Profile:          *profile,
		MarketingMeta:    cmd.MarketingMeta,
	})

	return outcome, nil
}
