package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("creates account with derived defaults", func(t *testing.T) {
		acc, err := NewAccount("johndoe", "John", "Doe", "john@example.com", "ABCD1234",
			"https://example.com/photo.jpg", map[string]string{"utm_source": "ad"})
		require.NoError(t, err)

		assert.Equal(t, "johndoe", acc.Username)
		assert.Equal(t, "John", acc.FirstName)
		assert.Equal(t, "Doe", acc.LastName)
		assert.Equal(t, "ABCD1234", acc.ReferralCode)
		assert.False(t, acc.CreatedAt.IsZero())
	})

	t.Run("username is required", func(t *testing.T) {
		_, err := NewAccount("", "John", "Doe", "john@example.com", "ABCD1234", "", nil)
		assert.Error(t, err)
	})

	t.Run("referral code is required", func(t *testing.T) {
		_, err := NewAccount("johndoe", "John", "Doe", "john@example.com", "", "", nil)
		assert.Error(t, err)
	})

	t.Run("email and names may be empty", func(t *testing.T) {
		acc, err := NewAccount("madonna", "", "Madonna", "", "ABCD1234", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "", acc.Email)
	})
}

func TestAccount_DisplayName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"full name title cased", "john", "doe", "John Doe"},
		{"last name only", "", "madonna", "Madonna"},
		{"first name only", "john", "", "John"},
		{"falls back to username", "", "", "johndoe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := NewAccount("johndoe", tt.first, tt.last, "", "ABCD1234", "", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, acc.DisplayName())
		})
	}
}
