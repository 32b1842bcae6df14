package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewHMACService("secret", time.Hour)

	token, err := svc.GenerateAdminToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewHMACService("secret", time.Hour).GenerateAdminToken()
	require.NoError(t, err)

	_, err = NewHMACService("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewHMACService("secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateAdminToken()
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewHMACService("secret", time.Hour)
	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateNeedsSecretAndTTL(t *testing.T) {
	_, err := NewHMACService("", time.Hour).GenerateAdminToken()
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = NewHMACService("secret", 0).GenerateAdminToken()
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
