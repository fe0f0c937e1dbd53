package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/fanfund/internal/domain"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

type fakeUsers struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUsers) Create(context.Context, *domain.User) error { return errors.New("not implemented") }

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, time.Minute)

	token, meta, err := tm.GenerateToken("u-1", domain.AudienceAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, time.Minute, meta.ExpiresAt.Sub(meta.IssuedAt))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.SubjectID())
	assert.Equal(t, domain.AudienceAdmin, claims.Audience)
	assert.Equal(t, meta.ID, claims.ID)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, time.Hour)
	token, _, err := tm.GenerateToken("u-1", domain.AudienceUser)
	require.NoError(t, err)

	later := NewTokenManager("secret", time.Hour, time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.ParseToken(token)
	assert.Error(t, err)

	other := NewTokenManager("other-secret", time.Hour, time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "hunter2"))
	assert.ErrorIs(t, ComparePassword(hash, "hunter3"), ErrPasswordMismatch)
}

func TestNewDummyHash_UsesRequestedCost(t *testing.T) {
	for _, cost := range []int{4, 6} {
		dummy, err := NewDummyHash(cost)
		require.NoError(t, err)

		got, err := bcrypt.Cost([]byte(dummy))
		require.NoError(t, err)
		assert.Equal(t, cost, got)

		stored, err := HashPassword("hunter2", cost)
		require.NoError(t, err)
		realCost, err := bcrypt.Cost([]byte(stored))
		require.NoError(t, err)
		assert.Equal(t, realCost, got)
	}
}

func TestRedisRevocationList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	list := NewRedisRevocationList(client)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// already expired tokens need no entry
	require.NoError(t, list.Revoke(ctx, "jti-2", time.Now().Add(-time.Second)))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-2"))
}

func newProtectedApp(t *testing.T, mw *AuthMiddleware, guards ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
		},
	})
	handlers := append([]fiber.Handler{mw.Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.User.ID)
	})
	app.Get("/protected", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, time.Hour)
	users := &fakeUsers{users: map[string]*domain.User{
		"u-1": {ID: "u-1", Role: domain.AccountRoleArtist},
		"a-1": {ID: "a-1", Role: domain.AccountRoleFan, IsAdmin: true},
	}}
	mr := miniredis.RunT(t)
	revoked := NewRedisRevocationList(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))

	userApp := newProtectedApp(t, NewAuthMiddleware(tm, users, revoked, domain.AudienceUser, nil),
		RequireRole(domain.AccountRoleArtist))
	adminApp := newProtectedApp(t, NewAuthMiddleware(tm, users, revoked, domain.AudienceAdmin, nil), RequireAdmin())

	userToken, userMeta, err := tm.GenerateToken("u-1", domain.AudienceUser)
	require.NoError(t, err)
	adminToken, _, err := tm.GenerateToken("a-1", domain.AudienceAdmin)
	require.NoError(t, err)
	fanAsAdmin, _, err := tm.GenerateToken("u-1", domain.AudienceAdmin)
	require.NoError(t, err)
	ghost, _, err := tm.GenerateToken("nobody", domain.AudienceUser)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(t, userApp, ""))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, userApp, "garbage"))
	assert.Equal(t, http.StatusOK, doGet(t, userApp, userToken))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, userApp, adminToken), "admin tokens do not open the user space")
	assert.Equal(t, http.StatusUnauthorized, doGet(t, userApp, ghost))

	assert.Equal(t, http.StatusOK, doGet(t, adminApp, adminToken))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, adminApp, userToken))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, adminApp, fanAsAdmin))

	require.NoError(t, revoked.Revoke(context.Background(), userMeta.ID, userMeta.ExpiresAt))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, userApp, userToken))

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, adminApp, adminToken))
}

func TestRequireRole_Forbidden(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, time.Hour)
	users := &fakeUsers{users: map[string]*domain.User{"u-2": {ID: "u-2", Role: domain.AccountRoleFan}}}
	app := newProtectedApp(t, NewAuthMiddleware(tm, users, nil, domain.AudienceUser, nil),
		RequireRole(domain.AccountRoleInvestor, domain.AccountRoleLabel))

	token, _, err := tm.GenerateToken("u-2", domain.AudienceUser)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(t, app, token))
}
