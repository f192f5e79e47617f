package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, secret string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a bearer token whose subject is the user id. The tenant is
// always resolved server-side from this subject, never taken from the client.
func (s *Service) IssueToken(user *User) (string, time.Time, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken parses a bearer token and returns the caller identity.
func (s *Service) VerifyToken(ctx context.Context, raw string) (*shared.Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, shared.ErrUnauthorized
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, shared.ErrUnauthorized
	}
	return &shared.Identity{UserID: user.ID, Email: user.Email}, nil
}
