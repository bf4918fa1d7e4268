package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateSessionToken(secret, "abc-123", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims.SessionID)
}

func TestParseSessionTokenRejects(t *testing.T) {
	secret := []byte("test-secret")

	expired, err := GenerateSessionToken(secret, "abc-123", -time.Minute)
	require.NoError(t, err)
	other, err := GenerateSessionToken([]byte("other-secret"), "abc-123", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", other},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSessionToken(secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidSessionToken)
		})
	}
}

func TestGenerateSessionTokenRequiresID(t *testing.T) {
	_, err := GenerateSessionToken([]byte("s"), "", time.Hour)
	assert.Error(t, err)
}
