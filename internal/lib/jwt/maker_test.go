package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour)

	token, err := maker.GenerateToken("aline", "user", "550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "aline", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", claims.UserUID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	maker := NewJWTMaker("secret-one", time.Hour)
	other := NewJWTMaker("secret-two", time.Hour)

	token, err := maker.GenerateToken("aline", "user", "uid-1")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	maker := NewJWTMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("aline", "user", "uid-1")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour)

	_, err := maker.ParseToken("definitely.not.a.token")
	assert.Error(t, err)
}
