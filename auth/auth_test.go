package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "S0meSecretPhrase!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong-password", hash)
	req.NoError(err)
	req.False(match)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid request", RegisterRequest{"alice", "alice@example.com", "Password123"}, false},
		{"invalid email", RegisterRequest{"alice", "notanemail", "Password123"}, true},
		{"username too short", RegisterRequest{"al", "alice@example.com", "Password123"}, true},
		{"password too short", RegisterRequest{"alice", "alice@example.com", "Pw1"}, true},
		{"digits only", RegisterRequest{"alice", "alice@example.com", "12345678"}, true},
		{"letters only", RegisterRequest{"alice", "alice@example.com", "passwordonly"}, true},
		{"password too long", RegisterRequest{"alice", "alice@example.com", strings.Repeat("a1", 40)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-1", "alice", time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("user-1", claims.UserID)
	req.Equal("alice", claims.Username)
}

func TestTokenExpired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-1", "alice", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}
