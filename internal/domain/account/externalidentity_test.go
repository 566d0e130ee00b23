package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExternalIdentity(t *testing.T) {
	t.Run("starts unlinked with one login recorded", func(t *testing.T) {
		identity, err := NewExternalIdentity("twitter", "12345", "tok", "sec", "johndoe")
		require.NoError(t, err)

		assert.False(t, identity.IsLinked())
		assert.Equal(t, uint(1), identity.LoginCount)
		assert.NotNil(t, identity.LastLoginAt)
	})

	t.Run("provider and external id are required", func(t *testing.T) {
		_, err := NewExternalIdentity("", "12345", "tok", "sec", "johndoe")
		assert.Error(t, err)

		_, err = NewExternalIdentity("twitter", "", "tok", "sec", "johndoe")
		assert.Error(t, err)
	})
}

func TestExternalIdentity_LinkTo(t *testing.T) {
	t.Run("links an unowned identity", func(t *testing.T) {
		identity, err := NewExternalIdentity("twitter", "12345", "tok", "sec", "johndoe")
		require.NoError(t, err)

		require.NoError(t, identity.LinkTo(7))
		assert.True(t, identity.IsLinked())
		assert.Equal(t, uint(7), identity.AccountID)
	})

	t.Run("relinking to the same account is allowed", func(t *testing.T) {
		identity, err := NewExternalIdentity("twitter", "12345", "tok", "sec", "johndoe")
		require.NoError(t, err)
		require.NoError(t, identity.LinkTo(7))

		assert.NoError(t, identity.LinkTo(7))
	})

	t.Run("relinking to a different account is refused", func(t *testing.T) {
		identity, err := NewExternalIdentity("twitter", "12345", "tok", "sec", "johndoe")
		require.NoError(t, err)
		require.NoError(t, identity.LinkTo(7))

		err = identity.LinkTo(8)
		assert.Error(t, err)
		assert.Equal(t, uint(7), identity.AccountID)
	})

	t.Run("zero account id is refused", func(t *testing.T) {
		identity, err := NewExternalIdentity("twitter", "12345", "tok", "sec", "johndoe")
		require.NoError(t, err)
		assert.Error(t, identity.LinkTo(0))
	})
}

func TestExternalIdentity_RecordLogin(t *testing.T) {
	identity, err := NewExternalIdentity("twitter", "12345", "tok", "sec", "johndoe")
	require.NoError(t, err)

	identity.RecordLogin()
	identity.RecordLogin()

	assert.Equal(t, uint(3), identity.LoginCount)
}

func TestExternalIdentity_RefreshTokens(t *testing.T) {
	identity, err := NewExternalIdentity("twitter", "12345", "tok", "sec", "johndoe")
	require.NoError(t, err)

	identity.RefreshTokens("new-tok", "new-sec")

	assert.Equal(t, "new-tok", identity.AccessToken)
	assert.Equal(t, "new-sec", identity.AccessTokenSecret)
}
