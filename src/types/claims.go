package types

import "github.com/golang-jwt/jwt/v5"

type Claims struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}
