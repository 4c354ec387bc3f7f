package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"

	"skallars-social/infrastructure/utils"
)

func TestGetCurrentTime_UTC(t *testing.T) {
	require.Equal(t, time.UTC, utils.GetCurrentTime().Location())
}

func TestGenerateToken_SignsClaims(t *testing.T) {
	signed, err := utils.GenerateToken(map[string]interface{}{"user_id": "7"}, "secret-key")
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		require.Equal(t, jwt.SigningMethodHS256, token.Method)
		return []byte("secret-key"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "7", claims["user_id"])
}
