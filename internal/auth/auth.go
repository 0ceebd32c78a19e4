package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rgoyals/bahikhata/internal/user"
)

var ErrUnauthorized = errors.New("could not validate credentials")

// UserResolver resolves a token subject to exactly one user.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Service issues and verifies HS256 bearer tokens with the user email as
// subject.
type Service struct {
	secret      []byte
	tokenExpiry time.Duration
	users       UserResolver
}

func NewService(secret string, tokenExpiry time.Duration, users UserResolver) *Service {
	return &Service{
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
		users:       users,
	}
}

// IssueToken creates a signed access token for the given user.
func (s *Service) IssueToken(u *user.User) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   u.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a bearer token and resolves its subject to
// a user. Any failure, including an unknown subject, maps to ErrUnauthorized.
func (s *Service) VerifyToken(ctx context.Context, raw string) (*user.User, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	return u, nil
}
