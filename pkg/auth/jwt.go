package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the identity carried by a bearer token. Tokens are issued by
// the directory service; this package only validates them.
type Claims struct {
	UserID uuid.UUID
	Role   string
	Degree int
}

type tokenClaims struct {
	Role   string `json:"role"`
	Degree int    `json:"grau"`
	jwt.RegisteredClaims
}

type TokenValidator interface {
	ValidateToken(token string) (*Claims, error)
}

type jwtValidator struct {
	secret []byte
}

func NewTokenValidator(secret string) TokenValidator {
	return &jwtValidator{secret: []byte(secret)}
}

func (v *jwtValidator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	return &Claims{
		UserID: userID,
		Role:   claims.Role,
		Degree: claims.Degree,
	}, nil
}
