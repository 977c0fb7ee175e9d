package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/csmentors/scheduler-api/internal/models"
	"github.com/csmentors/scheduler-api/pkg/config"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	return m.byID[id], nil
}

func authFixture(t *testing.T) (*AuthService, *models.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           "user-1",
		Email:        "oski@berkeley.edu",
		FullName:     "Oski Bear",
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Active:       true,
	}
	repo := &mockUserRepo{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[string]*models.User{user.ID: user},
	}
	cfg := config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}
	return NewAuthService(repo, cfg, nil, nil), user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, user := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    user.Email,
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, user := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    user.Email,
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@berkeley.edu",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, user := authFixture(t)
	user.Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    user.Email,
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, user := authFixture(t)

	first, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    user.Email,
		Password: "hunter22",
	})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{
		RefreshToken: first.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc, user := authFixture(t)
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    user.Email,
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
