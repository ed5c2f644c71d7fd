// Package auth provides email/password authentication and JWT issuing.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// SECRET_KEY signs every access token the service issues.
var SECRET_KEY = os.Getenv("SECRET_KEY")

// JwtIssuer identifies tokens minted by this service.
const JwtIssuer = "genai-hiring-backend"

// GenerateStandardToken issues a signed access token for the given user id.
// The second return value is reserved for a refresh token.
func GenerateStandardToken(userID uuid.UUID) (string, string, error) {
	return GenerateTokenWithDuration(userID, 8*time.Hour, JwtIssuer)
}

// GenerateTokenWithDuration issues a signed token with a custom lifetime and issuer.
func GenerateTokenWithDuration(userID uuid.UUID, lifetime time.Duration, issuer string) (string, string, error) {

	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := generatedAccessToken.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", "", fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, "", nil
}

// ValidatedToken parses and verifies an encoded token against the signing key.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(SECRET_KEY), nil
	})
}
