package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ParseToken validates a staff JWT and returns the staff_id claim.
func ParseToken(tokenString, secret string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if id, ok := claims["staff_id"].(float64); ok {
			return int(id), nil
		}
	}

	return 0, errors.New("missing staff_id claim")
}
