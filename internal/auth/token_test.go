package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)
	return ts
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	assert.Error(t, err)
}

func TestGenerateAndValidate(t *testing.T) {
	ts := newTestTokens(t)

	token, err := ts.Generate("user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT must have three parts")

	userID, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	ts := newTestTokens(t)

	token, err := ts.GenerateWithDuration("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	ts := newTestTokens(t)
	other, err := NewTokenService("another-secret-16-chars-long")
	require.NoError(t, err)

	token, err := ts.Generate("user-1")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	ts := newTestTokens(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := ts.Validate(tok)
		assert.Error(t, err, "token %q should not validate", tok)
	}
}
