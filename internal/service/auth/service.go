// Package auth issues and validates the dashboard's JWT tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
	"github.com/medaudit/audit-trail-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	secret []byte
	expiry time.Duration
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, secret string, expiry time.Duration) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		secret: []byte(secret),
		expiry: expiry,
	}
}

type claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the password against the stored hash and issues a token.
// Unknown user and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	_ = s.users.UpdateLastLogin(ctx, user.ID, time.Now())

	return s.issue(user.ID, user.Name, string(user.Role))
}

// DemoToken issues a token for a fictional viewer account. The dashboard
// demo mode uses it so the UI works without seeded credentials.
func (s *Service) DemoToken(_ context.Context) (*model.TokenResponse, error) {
	return s.issue("demo", "Demo Kullanıcı", "viewer")
}

func (s *Service) issue(userID, name, role string) (*model.TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &model.TokenResponse{AccessToken: signed, TokenType: "bearer"}, nil
}

// Validate parses and verifies a token, returning the embedded claims.
func (s *Service) Validate(tokenString string) (*model.TokenClaims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return &model.TokenClaims{UserID: c.Subject, Name: c.Name, Role: c.Role}, nil
}
