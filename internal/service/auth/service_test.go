package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
	"github.com/medaudit/audit-trail-api/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*model.User
}

func (s *stubUserRepo) Create(context.Context, *model.User) error { return nil }
func (s *stubUserRepo) Get(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubUserRepo) List(context.Context, string) ([]*model.User, error) { return nil, nil }
func (s *stubUserRepo) Search(context.Context, string, string, int) ([]*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) CountActive(context.Context, string) (int64, error)     { return 0, nil }
func (s *stubUserRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func newService(t *testing.T) (*Service, *stubUserRepo) {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	repo := &stubUserRepo{byEmail: map[string]*model.User{
		"ayse.demir@h01.saglik.gov.tr": {
			ID:           "H01-RAD-D-00001",
			Name:         "Dr. Ayşe Demir",
			Role:         model.RoleRadiologist,
			Email:        "ayse.demir@h01.saglik.gov.tr",
			PasswordHash: hash,
		},
	}}
	return NewService(repo, hasher, "test-secret", time.Hour), repo
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newService(t)

	token, err := svc.Login(context.Background(), model.LoginRequest{
		Username: "ayse.demir@h01.saglik.gov.tr",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "H01-RAD-D-00001", claims.UserID)
	assert.Equal(t, "Dr. Ayşe Demir", claims.Name)
	assert.Equal(t, "radiologist", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Username: "ayse.demir@h01.saglik.gov.tr",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Username: "nobody@h01.saglik.gov.tr",
		Password: "whatever",
	})
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDemoToken(t *testing.T) {
	svc, _ := newService(t)

	token, err := svc.DemoToken(context.Background())
	require.NoError(t, err)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "demo", claims.UserID)
	assert.Equal(t, "viewer", claims.Role)
}

func TestValidateRejectsTampering(t *testing.T) {
	svc, _ := newService(t)
	other := NewService(nil, security.NewBcryptHasher(4), "other-secret", time.Hour)

	token, err := other.DemoToken(context.Background())
	require.NoError(t, err)

	_, err = svc.Validate(token.AccessToken)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	expired := NewService(nil, security.NewBcryptHasher(4), "test-secret", -time.Hour)
	token, err := expired.DemoToken(context.Background())
	require.NoError(t, err)

	svc := NewService(nil, security.NewBcryptHasher(4), "test-secret", time.Hour)
	_, err = svc.Validate(token.AccessToken)
	assert.Error(t, err)
}
