package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlink-io/idlink/internal/shared/constants"
)

func newCallbackFixture(client *stubOAuthClient) (*HandleCallbackUseCase, *InitiateLoginUseCase, *reconcileFixture) {
	log := quietLogger()
	clients := ClientRegistry{constants.ProviderTwitter: client}
	initiator := NewInitiateLoginUseCase(clients, newMemoryStateStore(), log)

	rf := newReconcileFixture()
	uc := NewHandleCallbackUseCase(clients, initiator, rf.uc, log)
	return uc, initiator, rf
}

func TestInitiateLoginUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("issues auth URL and stores state", func(t *testing.T) {
		client := &stubOAuthClient{authURL: "https://provider.example.com/authorize", codeVerifier: "verifier-1"}
		store := newMemoryStateStore()
		uc := NewInitiateLoginUseCase(ClientRegistry{constants.ProviderTwitter: client}, store, quietLogger())

		result, err := uc.Execute(ctx, InitiateLoginCommand{Provider: constants.ProviderTwitter})
		require.NoError(t, err)
		assert.Contains(t, result.AuthURL, "https://provider.example.com/authorize")
		assert.NotEmpty(t, result.State)

		info, err := store.VerifyAndGet(ctx, result.State)
		require.NoError(t, err)
		assert.Equal(t, "verifier-1", info.CodeVerifier)
	})

	t.Run("unsupported provider errors", func(t *testing.T) {
		uc := NewInitiateLoginUseCase(ClientRegistry{}, newMemoryStateStore(), quietLogger())
		_, err := uc.Execute(ctx, InitiateLoginCommand{Provider: "myspace"})
		assert.ErrorContains(t, err, "unsupported OAuth provider")
	})

	t.Run("state is single use", func(t *testing.T) {
		client := &stubOAuthClient{authURL: "https://provider.example.com/authorize"}
		uc := NewInitiateLoginUseCase(ClientRegistry{constants.ProviderTwitter: client}, newMemoryStateStore(), quietLogger())

		result, err := uc.Execute(ctx, InitiateLoginCommand{Provider: constants.ProviderTwitter})
		require.NoError(t, err)

		_, err = uc.VerifyStateAndGetVerifier(ctx, result.State)
		require.NoError(t, err)

		_, err = uc.VerifyStateAndGetVerifier(ctx, result.State)
		assert.ErrorContains(t, err, "invalid or expired state")
	})
}

func TestHandleCallbackUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("completed handshake reaches the reconciler", func(t *testing.T) {
		profile := twitterProfile()
		client := &stubOAuthClient{
			authURL: "https://provider.example.com/authorize",
			token:   TokenMaterial{AccessToken: "tok", AccessTokenSecret: "sec"},
			profile: &profile,
		}
		uc, initiator, rf := newCallbackFixture(client)

		initiated, err := initiator.Execute(ctx, InitiateLoginCommand{Provider: constants.ProviderTwitter})
		require.NoError(t, err)

		outcome, err := uc.Execute(ctx, HandleCallbackCommand{
			Provider: constants.ProviderTwitter,
			Code:     "auth-code",
			State:    initiated.State,
		})
		require.NoError(t, err)
		require.Equal(t, OutcomeSignedUp, outcome.Kind)
		assert.Equal(t, "johndoe", outcome.Account.Username)
		assert.Equal(t, 1, rf.marker.count())
	})

	t.Run("unknown state is a handshake error", func(t *testing.T) {
		uc, _, _ := newCallbackFixture(&stubOAuthClient{})

		_, err := uc.Execute(ctx, HandleCallbackCommand{
			Provider: constants.ProviderTwitter,
			Code:     "auth-code",
			State:    "forged",
		})
		assert.ErrorContains(t, err, "invalid or expired state")
	})

	t.Run("exchange failure is a handshake error", func(t *testing.T) {
		client := &stubOAuthClient{
			authURL:     "https://provider.example.com/authorize",
			exchangeErr: errors.New("provider timeout"),
		}
		uc, initiator, _ := newCallbackFixture(client)

		initiated, err := initiator.Execute(ctx, InitiateLoginCommand{Provider: constants.ProviderTwitter})
		require.NoError(t, err)

		_, err = uc.Execute(ctx, HandleCallbackCommand{
			Provider: constants.ProviderTwitter,
			Code:     "auth-code",
			State:    initiated.State,
		})
		assert.ErrorContains(t, err, "failed to exchange authorization code")
	})

	t.Run("profile fetch failure is a handshake error", func(t *testing.T) {
		client := &stubOAuthClient{
			authURL:    "https://provider.example.com/authorize",
			profileErr: errors.New("rate limited"),
		}
		uc, initiator, _ := newCallbackFixture(client)

		initiated, err := initiator.Execute(ctx, InitiateLoginCommand{Provider: constants.ProviderTwitter})
		require.NoError(t, err)

		_, err = uc.Execute(ctx, HandleCallbackCommand{
			Provider: constants.ProviderTwitter,
			Code:     "auth-code",
			State:    initiated.State,
		})
		assert.ErrorContains(t, err, "failed to get user info")
	})

	t.Run("session principal is forwarded to the reconciler", func(t *testing.T) {
		profile := twitterProfile()
		client := &stubOAuthClient{
			authURL: "https://provider.example.com/authorize",
			token:   TokenMaterial{AccessToken: "tok"},
			profile: &profile,
		}
		uc, initiator, rf := newCallbackFixture(client)
		current := seedAccount(t, rf.directory, "johndoe", "john@example.com")

		initiated, err := initiator.Execute(ctx, InitiateLoginCommand{Provider: constants.ProviderTwitter})
		require.NoError(t, err)

		outcome, err := uc.Execute(ctx, HandleCallbackCommand{
			Provider:         constants.ProviderTwitter,
			Code:             "auth-code",
			State:            initiated.State,
			SessionAccountID: current.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeLinkedToCurrentAccount, outcome.Kind)
	})
}
