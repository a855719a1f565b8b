package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated user id minted by the external identity
// provider. This service only verifies tokens, it never issues them.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func ParseToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		if claims.Subject == "" {
			return nil, ErrInvalidToken
		}
		claims.UserID = claims.Subject
	}
	return claims, nil
}
