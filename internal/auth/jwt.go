package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/meeplemeet/meeplemeet/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the assertions carried by a session credential. The struct is
// closed on purpose: verification failures are structural, not duck-typed.
type Claims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256-signed session credentials.
// The secret is process-wide configuration; rotating it invalidates every
// outstanding credential.
type TokenSigner struct {
	secret   []byte
	validity time.Duration
}

func NewTokenSigner(secret string, validity time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), validity: validity}
}

// Issue produces a signed credential for user, expiring after the
// configured validity window.
func (s *TokenSigner) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature and expiry. Any structural corruption, signature
// mismatch, or expiry violation yields ErrInvalidToken; callers treat that
// as "unauthenticated", never as a hard failure.
func (s *TokenSigner) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
