package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_SessionToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	userID := uuid.New()

	tokenString, err := j.GenerateSessionToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	parsed, err := j.ParseSessionToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWT_SessionToken_WrongSecret(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	tokenString, err := j.GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	other := NewJWT("other-secret", time.Hour)
	_, err = other.ParseSessionToken(tokenString)
	assert.Error(t, err)
}

func TestJWT_SessionToken_Expired(t *testing.T) {
	j := NewJWT("secret", -time.Minute)

	tokenString, err := j.GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	_, err = j.ParseSessionToken(tokenString)
	assert.Error(t, err)
}

func TestJWT_SessionToken_Garbage(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	_, err := j.ParseSessionToken("not-a-token")
	assert.Error(t, err)
}
