package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"badger", "snake"}, '*')
	req.NoError(err)
	req.NotNil(mod)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple word, spacing preserved",
			input:    "The badger is here",
			expected: "The ****** is here",
		},
		{
			name:     "multiple occurrences",
			input:    "badger badger badger",
			expected: "****** ****** ******",
		},
		{
			name:     "leet speak with internal punctuation",
			input:    "Look at B.4.d.g.€r !",
			expected: "Look at ********** !",
		},
		{
			name:     "uppercase with noise",
			input:    "S-N-A-K-E is fine",
			expected: "********* is fine",
		},
		{
			name:     "clean text untouched",
			input:    "nothing to see",
			expected: "nothing to see",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, mod.Censor(tt.input))
		})
	}
}

func TestModerator_NilIsDisabled(t *testing.T) {
	req := require.New(t)

	// An empty word list disables the filter entirely.
	mod, err := NewModerator(nil, '*')
	req.NoError(err)
	req.Nil(mod)
	req.Equal("badger", mod.Censor("badger"))
}
