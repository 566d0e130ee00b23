package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisplayName(t *testing.T) {
	t.Run("normalizes interior whitespace", func(t *testing.T) {
		name, err := NewDisplayName("  John   Doe ")
		require.NoError(t, err)
		assert.Equal(t, "John Doe", name.String())
	})

	t.Run("empty or blank name errors", func(t *testing.T) {
		for _, input := range []string{"", "   ", "\t\n"} {
			_, err := NewDisplayName(input)
			assert.Error(t, err)
		}
	})
}

func TestDisplayName_Split(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"two tokens", "John Doe", "John", "Doe"},
		{"middle names fold into first", "John Middle Doe", "John Middle", "Doe"},
		{"single token becomes last name", "Madonna", "", "Madonna"},
		{"four tokens", "Juan Pablo de la Cruz", "Juan Pablo de la", "Cruz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := NewDisplayName(tt.input)
			require.NoError(t, err)

			first, last := name.Split()
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "John Doe", TitleCase("john doe"))
	assert.Equal(t, "John Doe", TitleCase("JOHN DOE"))
	assert.Equal(t, "", TitleCase(""))
}
