// AngelaMos | 2026
// auth_test.go

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carterperez-dev/boi-backend/internal/config"
	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*UserInfo, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*UserInfo)
	return u, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*UserInfo, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*UserInfo)
	return u, args.Error(1)
}

func (m *mockUsers) Create(ctx context.Context, name, email, hash string) (*UserInfo, error) {
	args := m.Called(ctx, name, email, hash)
	u, _ := args.Get(0).(*UserInfo)
	return u, args.Error(1)
}

func (m *mockUsers) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUsers) UpdateProfile(
	ctx context.Context,
	id int64,
	name, phone, address string,
) (*UserInfo, error) {
	args := m.Called(ctx, id, name, phone, address)
	u, _ := args.Get(0).(*UserInfo)
	return u, args.Error(1)
}

func (m *mockUsers) UpsertAdmin(ctx context.Context, name, email, hash string) (bool, error) {
	args := m.Called(ctx, name, email, hash)
	return args.Bool(0), args.Error(1)
}

func newJWT(t *testing.T) *TokenSigner {
	t.Helper()
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(priv, pub))

	m, err := NewTokenSigner(config.JWTConfig{
		PrivateKeyPath:    priv,
		PublicKeyPath:     pub,
		AccessTokenExpire: 168 * time.Hour,
		Issuer:            "boi-backend",
		Audience:          "boi-api",
	})
	require.NoError(t, err)
	return m
}

func newTestService(t *testing.T, reserved ...string) (*Service, *mockUsers, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := &mockUsers{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(newJWT(t), users, core.NewTokenBlacklist(client), reserved, logger)
	return svc, users, mr
}

func TestRegisterRejectsReservedEmail(t *testing.T) {
	svc, users, _ := newTestService(t, "root@boi.dev")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Mallory",
		Email:    "ROOT@boi.dev",
		Password: "secret1",
	})

	assert.ErrorIs(t, err, ErrEmailReserved)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newTestService(t)
	users.On("Create", mock.Anything, "Ann", "ann@example.com", mock.AnythingOfType("string")).
		Return(nil, core.ErrDuplicateKey)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "secret1",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, users, _ := newTestService(t)
	hash, err := core.HashPassword("secret1")
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "ann@example.com").Return(&UserInfo{
		ID:           12,
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: hash,
		Role:         "user",
		Phone:        "555-0100",
	}, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ann@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 12, resp.UserID)
	assert.Equal(t, "555-0100", resp.Phone)

	claims, err := svc.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.EqualValues(t, 12, claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newTestService(t)
	hash, err := core.HashPassword("secret1")
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "ann@example.com").
		Return(&UserInfo{ID: 1, PasswordHash: hash, Role: "user"}, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, core.ErrNotFound)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRehashesLegacyBcrypt(t *testing.T) {
	svc, users, _ := newTestService(t)
	legacy, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "old@example.com").
		Return(&UserInfo{ID: 5, PasswordHash: string(legacy), Role: "user"}, nil)
	users.On("UpdatePassword", mock.Anything, int64(5), mock.MatchedBy(func(h string) bool {
		return len(h) > 10 && h[:9] == "$argon2id"
	})).Return(nil)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "old@example.com", Password: "123456"})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, users, mr := newTestService(t)
	users.On("Create", mock.Anything, "Ann", "ann@example.com", mock.AnythingOfType("string")).
		Return(&UserInfo{ID: 3, Name: "Ann", Email: "ann@example.com", Role: "user"}, nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	assert.True(t, mr.Exists("blacklist:"+claims.TokenID))

	_, err = svc.VerifyAccessToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestExpiredToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.jwt.now = func() time.Time { return time.Now().Add(-200 * time.Hour) }
	token, err := svc.jwt.Sign(TokenSubject{UserID: 1, Role: "user"})
	require.NoError(t, err)
	svc.jwt.now = time.Now

	_, err = svc.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)

	_, err = svc.VerifyAccessToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestSeedAdmins(t *testing.T) {
	svc, users, _ := newTestService(t)

	users.On("GetByEmail", mock.Anything, "new@boi.dev").Return(nil, core.ErrNotFound)
	users.On("UpsertAdmin", mock.Anything, "New", "new@boi.dev", mock.MatchedBy(func(h string) bool {
		return h != "" && h != "pw1"
	})).Return(true, nil)

	users.On("GetByEmail", mock.Anything, "promote@boi.dev").
		Return(&UserInfo{ID: 2, PasswordHash: "existing-hash", Role: "user"}, nil)
	users.On("UpsertAdmin", mock.Anything, "Promote", "promote@boi.dev", "existing-hash").
		Return(false, nil)

	users.On("GetByEmail", mock.Anything, "done@boi.dev").
		Return(&UserInfo{ID: 3, Role: "admin"}, nil)

	created, err := svc.SeedAdmins(context.Background(), []config.AdminAccount{
		{Email: "new@boi.dev", Name: "New", Password: "pw1"},
		{Email: "promote@boi.dev", Name: "Promote", Password: "pw2"},
		{Email: "done@boi.dev", Name: "Done", Password: "pw3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	users.AssertExpectations(t)
	users.AssertNumberOfCalls(t, "UpsertAdmin", 2)
}

func newRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(svc), nil)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterHandlerValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	router := newRouter(svc)

	body, _ := json.Marshal(map[string]string{"name": "Ann", "email": "ann@example.com", "password": "123"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", decode(t, rec)["message"])
}

func TestRegisterHandlerReserved(t *testing.T) {
	svc, _, _ := newTestService(t, "root@boi.dev")
	router := newRouter(svc)

	body, _ := json.Marshal(map[string]string{"name": "M", "email": "root@boi.dev", "password": "123456"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "This email is reserved and cannot be registered", decode(t, rec)["message"])
}

func TestProfileHandlerRejectsAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	router := newRouter(svc)

	token, err := svc.jwt.Sign(TokenSubject{UserID: 1, Email: "root@boi.dev", Role: "admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/auth/profile", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin profile cannot be updated", decode(t, rec)["message"])
}

func TestProfileHandlerRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)
	router := newRouter(svc)

	token, err := svc.jwt.Sign(TokenSubject{UserID: 4, Role: "user"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/auth/profile", bytes.NewReader([]byte(`{"phone":"1"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required", decode(t, rec)["message"])
}

func TestJWKSHandler(t *testing.T) {
	m := newJWT(t)
	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	keys := decode(t, rec)["keys"].([]any)
	require.Len(t, keys, 1)
	assert.Equal(t, m.KeyID(), keys[0].(map[string]any)["kid"])
}
