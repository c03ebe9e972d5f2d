package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"marketplace-backend/shared/config"
)

// Claims carried by the identity provider's token. The service only consumes
// resolved identities; token issuance happens upstream.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	cfg := config.GetConfig()
	if cfg.JWTSecret == "" {
		return []byte("fallback-secret-key-for-development")
	}
	return []byte(cfg.JWTSecret)
}

// ValidateJWT parses and verifies a bearer token and returns its claims.
func ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
