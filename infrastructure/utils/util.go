package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"skallars-social/infrastructure/logger"
)

// GetCurrentTime returns the current instant in UTC. Scheduling and lease
// comparisons all run on UTC timestamps.
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs the payload as an HS256 session token.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(payload))
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while signing session token")
		return "", err
	}
	return signed, nil
}
