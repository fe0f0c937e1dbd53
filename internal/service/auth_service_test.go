package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/repository/repotest"
)

type memoryRevocations struct {
	revoked map[string]time.Time
	err     error
}

func (m *memoryRevocations) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, m.err
}

func newAuthService(store *repotest.Store, revoked *memoryRevocations) *AuthService {
	deps := AuthDependencies{UserRepo: store.Users(), AccountRepo: store.Accounts()}
	if revoked != nil {
		deps.Revoked = revoked
	}
	return NewAuthService(testAuthConfig(), deps)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{Username: "nova", Email: "nova@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, domain.AccountRoleFan, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	logged, token, err := svc.Login(ctx, domain.AudienceUser, "NOVA@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID())
	assert.Equal(t, domain.AudienceUser, claims.Audience)
}

func TestAuthService_RegisterArtistCreatesProfile(t *testing.T) {
	store := repotest.NewStore()
	user, artist := seedArtist(t, store, "echo")
	assert.Equal(t, user.ID, artist.UserID)
	assert.Equal(t, "echo", artist.Name)
}

func TestAuthService_RegisterArtistProfileFailureLeavesNoAccount(t *testing.T) {
	store := repotest.NewStore()
	store.ArtistErr = errors.New("insert artist failed")
	svc := newAuthService(store, nil)
	in := RegisterInput{Username: "echo", Email: "echo@example.com", Password: "password123", Role: domain.AccountRoleArtist}

	_, _, err := svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Zero(t, store.UserCount())

	store.ArtistErr = nil
	user, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	_, err = store.Artists().GetByUserID(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestAuthService_UnknownEmailPaysConfiguredCost(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)

	cost, err := bcrypt.Cost([]byte(svc.dummyHash))
	require.NoError(t, err)
	assert.Equal(t, testAuthConfig().BcryptCost, cost)

	_, _, err = svc.Login(context.Background(), domain.AudienceUser, "ghost@example.com", "password123")
	requireCode(t, err, "UNAUTHORIZED")
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)
	in := RegisterInput{Username: "nova", Email: "nova@example.com", Password: "password123"}

	_, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	_, _, err = svc.Register(context.Background(), in)
	requireCode(t, err, "CONFLICT")
}

func TestAuthService_RegisterUnknownRole(t *testing.T) {
	svc := newAuthService(repotest.NewStore(), nil)
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "x", Email: "x@example.com", Password: "password123", Role: "producer",
	})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()
	_, _, err := svc.Register(ctx, RegisterInput{Username: "nova", Email: "nova@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, unknown := svc.Login(ctx, domain.AudienceUser, "ghost@example.com", "password123")
	_, _, wrong := svc.Login(ctx, domain.AudienceUser, "nova@example.com", "nope")
	_, _, notAdmin := svc.Login(ctx, domain.AudienceAdmin, "nova@example.com", "password123")

	a := requireCode(t, unknown, "UNAUTHORIZED")
	b := requireCode(t, wrong, "UNAUTHORIZED")
	c := requireCode(t, notAdmin, "UNAUTHORIZED")
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Message, c.Message)
}

func TestAuthService_EnsureAdminThenAdminLogin(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "s3cret-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "other"))

	user, token, err := svc.Login(ctx, domain.AudienceAdmin, "root@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "root", user.Username)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.AudienceAdmin, claims.Audience)
}

func TestAuthService_EnsureAdminSkipsWithoutCredentials(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	_, err := store.Users().GetByEmail(context.Background(), "")
	assert.Error(t, err)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	store := repotest.NewStore()
	revoked := &memoryRevocations{revoked: map[string]time.Time{}}
	svc := newAuthService(store, revoked)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, RegisterInput{Username: "nova", Email: "nova@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	assert.Contains(t, revoked.revoked, claims.ID)

	revoked.err = errors.New("redis down")
	requireCode(t, svc.Logout(ctx, claims), "INTERNAL_ERROR")
}
