package utils

import (
	"errors"
	"fmt"
	"hrc/src/models"
	"hrc/src/types"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TOKEN_TTL = 12 * time.Hour

var ErrNoSigningKey = errors.New("JWT_SECRET is not set")

func JWTSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrNoSigningKey
	}
	return []byte(secret), nil
}

// GenerateJWT issues a session token for a staff member. The subject is the
// user id.
func GenerateJWT(user *models.User, now time.Time) (string, error) {
	key, err := JWTSecret()
	if err != nil {
		return "", err
	}
	claims := types.Claims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			Issuer:    "hrc",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TOKEN_TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(key)
}

// ParseJWT validates the signature and expiry of a session token.
func ParseJWT(raw string) (*types.Claims, error) {
	key, err := JWTSecret()
	if err != nil {
		return nil, err
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
