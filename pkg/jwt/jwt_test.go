package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret", "asksamriddhi-api", 1)

	token, err := tm.GenerateToken("s@samriddhi.edu.np", "s@samriddhi.edu.np", "student")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s@samriddhi.edu.np", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "asksamriddhi-api", claims.Issuer)
}

func TestTokenManager_ValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-one", "asksamriddhi-api", 1)
	other := NewTokenManager("secret-two", "asksamriddhi-api", 1)

	token, err := tm.GenerateToken("s@samriddhi.edu.np", "s@samriddhi.edu.np", "student")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "asksamriddhi-api", 1)

	_, err := tm.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_GetExpirationTime(t *testing.T) {
	tm := NewTokenManager("test-secret", "asksamriddhi-api", 24)
	assert.Equal(t, 24*time.Hour, tm.GetExpirationTime())
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("abc", "abc"))
	assert.False(t, TimingSafeCompare("abc", "abd"))
	assert.False(t, TimingSafeCompare("abc", "abcd"))
	assert.True(t, TimingSafeCompare("", ""))
}
