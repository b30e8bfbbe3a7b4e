package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AccessTokenTTL = time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies the signed access tokens handed to clients.
// It is stateless: rotating the secret invalidates every outstanding token.
type Service struct {
	Secret []byte
	TTL    time.Duration
}

func NewService(secret []byte) *Service {
	return &Service{Secret: secret, TTL: AccessTokenTTL}
}

func (s *Service) Issue(userID uint, role string) (string, error) {
	exp := time.Now().Add(s.TTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.Secret)
}

// Verify checks signature and expiry and returns the embedded subject and role.
func (s *Service) Verify(raw string) (uint, string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return 0, "", ErrInvalidToken
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok {
		return 0, "", ErrInvalidToken
	}

	return uint(sub), role, nil
}

// RemainingLife reports how long the token stays valid, so a revocation
// entry can expire together with the token itself.
func (s *Service) RemainingLife(raw string) time.Duration {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return 0
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0
	}
	left := time.Until(time.Unix(int64(exp), 0))
	if left < 0 {
		return 0
	}
	return left
}
