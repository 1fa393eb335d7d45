package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diyaa-Iskandar/petotec-app/internal/utils"
)

const testSecret = "unit-test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	token, expiresAt, err := utils.GenerateJWT("user-1", "ADMIN", testSecret, time.Hour, "petrotec-backend")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "petrotec-backend", claims.Issuer)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, _, err := utils.GenerateJWT("user-1", "ENGINEER", testSecret, time.Hour, "petrotec-backend")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "some-other-secret")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseJWT_Expired(t *testing.T) {
	token, _, err := utils.GenerateJWT("user-1", "ENGINEER", testSecret, -time.Minute, "petrotec-backend")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestParseJWT_Garbage(t *testing.T) {
	claims, err := utils.ParseAndValidateJWT("not.a.token", testSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
