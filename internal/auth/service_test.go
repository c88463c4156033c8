package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/nmoralesdev/receiptdesk-backend/pkg/auth"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/auth/session"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/config"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
)

type fakeUserRepo struct {
	byEmail   map[string]*models.User
	lastLogin map[uuid.UUID]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:   map[string]*models.User{},
		lastLogin: map[uuid.UUID]time.Time{},
	}
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

type fakeVerifier struct {
	valid string
}

func (f *fakeVerifier) Verify(password, _ string) (bool, error) {
	return password == f.valid, nil
}

type fakeSessions struct {
	refreshByAccessID map[string]string
	revoked           []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{refreshByAccessID: map[string]string{}}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.refreshByAccessID[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.refreshByAccessID[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.refreshByAccessID, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + newAccessID
	f.refreshByAccessID[newAccessID] = token
	return newAccessID, token, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	delete(f.refreshByAccessID, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "receiptdesk-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newAuthFixture(t *testing.T) (Service, *fakeUserRepo, *fakeSessions) {
	t.Helper()

	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		Hasher:         &fakeVerifier{valid: "correct-horse"},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func seedUser(repo *fakeUserRepo, email string, active bool) *models.User {
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "stored-hash",
		FirstName:    "Nina",
		LastName:     "Morales",
		IsActive:     active,
	}
	repo.byEmail[email] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)
	user := seedUser(repo, "nina@example.com", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Nina@Example.com ",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.Email, resp.User.Email)
	assert.Contains(t, repo.lastLogin, user.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "refresh-"+claims.ID, sessions.refreshByAccessID[claims.ID])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	seedUser(repo, "nina@example.com", true)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nina@example.com",
		Password: "wrong",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	seedUser(repo, "nina@example.com", false)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nina@example.com",
		Password: "correct-horse",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	seedUser(repo, "nina@example.com", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nina@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, resp.RefreshToken, pair.RefreshToken)

	// old pair is burned after rotation
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRejectsForgedAccessToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)
	seedUser(repo, "nina@example.com", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nina@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.Contains(t, sessions.revoked, claims.ID)
	assert.NotContains(t, sessions.refreshByAccessID, claims.ID)
}

func TestLogoutRequiresAccessID(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.Logout(context.Background(), "  ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
