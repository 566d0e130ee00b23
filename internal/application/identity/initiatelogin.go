package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/idlink-io/idlink/internal/infrastructure/cache"
	"github.com/idlink-io/idlink/internal/shared/logger"
)

// StateStore defines the interface for OAuth state storage
type StateStore interface {
	Set(ctx context.Context, state string, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error)
}

type InitiateLoginCommand struct {
	Provider string
}

type InitiateLoginResult struct {
	AuthURL string
	State   string
}

// InitiateLoginUseCase issues the provider redirect for a new handshake and
// stores the CSRF state (plus PKCE verifier for OAuth2 providers) one-time.
type InitiateLoginUseCase struct {
	clients    ClientRegistry
	stateStore StateStore
	logger     logger.Interface
}

func NewInitiateLoginUseCase(clients ClientRegistry, stateStore StateStore, logger logger.Interface) *InitiateLoginUseCase {
	return &InitiateLoginUseCase{
		clients:    clients,
		stateStore: stateStore,
		logger:     logger,
	}
}

func (uc *InitiateLoginUseCase) Execute(ctx context.Context, cmd InitiateLoginCommand) (*InitiateLoginResult, error) {
	client, ok := uc.clients.Lookup(cmd.Provider)
	if !ok {
		return nil, fmt.Errorf("unsupported OAuth provider: %s", cmd.Provider)
	}

	state, err := generateState()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	authURL, codeVerifier, err := client.GetAuthURL(state)
	if err != nil {
		uc.logger.Errorw("failed to get auth URL", "error", err, "provider", cmd.Provider)
		return nil, fmt.Errorf("failed to get auth URL: %w", err)
	}

	if err := uc.stateStore.Set(ctx, state, codeVerifier); err != nil {
		uc.logger.Errorw("failed to store OAuth state", "error", err)
		return nil, fmt.Errorf("failed to store state: %w", err)
	}

	uc.logger.Infow("OAuth login initiated", "provider", cmd.Provider)

	return &InitiateLoginResult{
		AuthURL: authURL,
		State:   state,
	}, nil
}

// VerifyStateAndGetVerifier verifies state one-time and retrieves the PKCE verifier.
func (uc *InitiateLoginUseCase) VerifyStateAndGetVerifier(ctx context.Context, state string) (*cache.StateInfo, error) {
	stateInfo, err := uc.stateStore.VerifyAndGet(ctx, state)
	if err != nil {
		uc.logger.Warnw("invalid or expired OAuth state", "error", err)
		return nil, fmt.Errorf("invalid or expired state parameter")
	}
	return stateInfo, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
