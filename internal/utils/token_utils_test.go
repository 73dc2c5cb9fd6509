package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", time.Hour, "recordsheet")
	require.NoError(t, err)

	subject, err := ParseAndValidateJWT(token, "secret", "recordsheet")
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	subject, err = ParseAndValidateJWT(token, "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	valid, err := GenerateJWT("user-1", "secret", time.Hour, "recordsheet")
	require.NoError(t, err)
	expired, err := GenerateJWT("user-1", "secret", -time.Minute, "recordsheet")
	require.NoError(t, err)
	noSubject, err := GenerateJWT("", "secret", time.Hour, "recordsheet")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(valid, "other-secret", "recordsheet")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(valid, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	_, err = ParseAndValidateJWT(expired, "secret", "recordsheet")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = ParseAndValidateJWT(noSubject, "secret", "recordsheet")
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = ParseAndValidateJWT("not-a-token", "secret", "recordsheet")
	assert.Error(t, err)
}
