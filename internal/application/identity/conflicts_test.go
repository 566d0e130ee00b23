package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlink-io/idlink/internal/domain/account"
	"github.com/idlink-io/idlink/internal/shared/constants"
)

func TestConflictResolver_FindBlockingAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("empty email never blocks", func(t *testing.T) {
		dir := newFakeDirectory()
		r := NewConflictResolver(dir)

		blocking, err := r.FindBlockingAccounts(ctx, "", constants.ProviderTwitter)
		require.NoError(t, err)
		assert.Nil(t, blocking)
	})

	t.Run("returns unlinked accounts with the email", func(t *testing.T) {
		dir := newFakeDirectory()
		acc, err := account.NewAccount("olduser", "Old", "User", "john@example.com", "OLDUSER1", "", nil)
		require.NoError(t, err)
		dir.seedAccount(acc)

		r := NewConflictResolver(dir)
		blocking, err := r.FindBlockingAccounts(ctx, "john@example.com", constants.ProviderTwitter)
		require.NoError(t, err)
		require.Len(t, blocking, 1)
		assert.Equal(t, acc.ID, blocking[0].ID)
	})
}

func TestConflictResolver_RejectionMessage(t *testing.T) {
	r := NewConflictResolver(newFakeDirectory())

	acc1 := &account.Account{ID: 7}
	acc2 := &account.Account{ID: 13}

	msg := r.RejectionMessage("john@example.com", constants.ProviderTwitter, []*account.Account{acc1, acc2})

	assert.Equal(t,
		`Your email id "john@example.com" is already used in the following account(s): [ 7,13 ]. `+
			`Please log into your old account and connect twitter in it instead. `+
			`Use 'Forgot Password' option if you do not remember password of old account`,
		msg)
}
