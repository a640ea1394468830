package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for the API surface.
func GenerateToken(userID, name, photoURL string) (string, error) {
	return GenerateTokenWithExpiry(userID, name, photoURL, time.Now().Add(24*time.Hour))
}

// GenerateTokenWithExpiry creates a new JWT token with custom expiry
func GenerateTokenWithExpiry(userID, name, photoURL string, expiry time.Time) (string, error) {
	claims := Claims{
		UserID:   userID,
		Name:     name,
		PhotoURL: photoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// ValidateToken validates and extracts user info from a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
