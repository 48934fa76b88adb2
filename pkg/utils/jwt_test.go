package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("secret", "george", "ROLE_USER", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "george", claims.Username)
	assert.Equal(t, "ROLE_USER", claims.Role)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret", "george", "ROLE_USER", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("other", token)
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("secret", "george", "ROLE_USER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT("secret", token)
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)

	assert.True(t, CheckPassword("password", string(hash)))
	assert.False(t, CheckPassword("wrong", string(hash)))
}
