package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
)

type mockUserRepo struct {
	nextID   int64
	users    map[string]*models.User
	profiles map[int64]*models.ServiceProvider
	tokens   map[string]*models.RefreshToken
	revoked  []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		nextID:   1,
		users:    make(map[string]*models.User),
		profiles: make(map[int64]*models.ServiceProvider),
		tokens:   make(map[string]*models.RefreshToken),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User, profile *models.ServiceProvider) error {
	if _, exists := m.users[user.Email]; exists {
		return appErrors.ErrEmailTaken
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.Email] = &cp
	if profile != nil {
		profile.UserID = user.ID
		profile.ID = user.ID
		pcp := *profile
		m.profiles[user.ID] = &pcp
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.users[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := m.tokens[token]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	for _, rt := range m.tokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	for _, rt := range m.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
			rt.RevokedAt = &now
		}
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "services-marketplace",
	}
}

func TestAuthServiceRegisterCustomer(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", info.Email)
	assert.Empty(t, repo.profiles)

	// The stored password is hashed, never plaintext.
	stored := repo.users["dana@example.com"]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestAuthServiceRegisterProviderRequiresServiceType(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "secret1",
		UserType: models.UserTypeContractor,
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:        "Pat",
		Email:       "pat@example.com",
		Password:    "secret1",
		UserType:    models.UserTypeContractor,
		ServiceType: "plumbing",
		Experience:  10,
	})
	require.NoError(t, err)
	profile, ok := repo.profiles[info.ID]
	require.True(t, ok)
	assert.Equal(t, "plumbing", profile.ServiceType)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	req := models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrEmailTaken)
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "dana@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "dana@example.com", resp.User.Email)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.UserTypeCustomer, claims.UserType)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)

	// Wrong password and unknown email produce the same error code.
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "wrong1"})
	assertErrorCode(t, err, appErrors.ErrInvalidCredentials.Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assertErrorCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestAuthServiceRegisterProviderInvalidatesDirectory(t *testing.T) {
	repo := newMockUserRepo()
	cache := newMockDirectoryCache()
	cache.entries["directory:providers:plumbing"] = []byte(`[]`)
	svc := NewAuthService(repo, cache, nil, nil, testAuthConfig())

	// A customer registration does not touch the directory.
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)
	assert.Empty(t, cache.deletes)

	// A provider registration changes what the directory shows, so the
	// cached listings are dropped instead of waiting for TTL expiry.
	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Name:        "Pat",
		Email:       "pat@example.com",
		Password:    "secret1",
		UserType:    models.UserTypeFreelancer,
		ServiceType: "plumbing",
	})
	require.NoError(t, err)
	assert.Contains(t, cache.deletes, "directory:providers:*")
	assert.Empty(t, cache.entries)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Len(t, repo.revoked, 1)

	// The used token is revoked and cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceRefreshReuseRevokesAllSessions(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)

	// Two independent sessions for the same account.
	first, err := svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	// Normal rotation of the first session's token.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)

	// Replaying the rotated token signals theft and kills every session.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)

	for token, rt := range repo.tokens {
		assert.True(t, rt.Revoked, "token %s should be revoked", token)
	}

	// The untouched second session can no longer refresh either.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: second.RefreshToken})
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)

	otherSvc := NewAuthService(repo, nil, nil, nil, AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: time.Hour,
	})
	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)
	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = otherSvc.ValidateToken(login.AccessToken)
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}
