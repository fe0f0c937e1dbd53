package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/config"
	"github.com/spec-kit/fanfund/internal/kv"
	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
	"github.com/spec-kit/fanfund/internal/session"
)

// fakePlatform serves just enough of the platform API for the commands under test.
type fakePlatform struct {
	mu       sync.Mutex
	users    map[string]platform.User
	meStatus int

	artistCalls   atomic.Int32
	checkoutCalls atomic.Int32
	confirmed     atomic.Value
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{users: map[string]platform.User{
		"mia@example.com":  {ID: "u-mia", Username: "mia", Email: "mia@example.com", Role: "artist"},
		"ivan@example.com": {ID: "u-ivan", Username: "ivan", Email: "ivan@example.com", Role: "investor"},
		"root@example.com": {ID: "u-root", Username: "root", Email: "root@example.com", Role: "fan", IsAdmin: true},
	}}
}

func (f *fakePlatform) failMe(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meStatus = status
}

func (f *fakePlatform) handler() http.Handler {
	mux := http.NewServeMux()
	login := func(w http.ResponseWriter, r *http.Request) {
		var creds platform.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		user, ok := f.users[creds.Email]
		if !ok || creds.Password != "pw" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, platform.LoginResponse{Token: "tok-" + user.ID, User: user})
	}
	me := func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.meStatus
		f.mu.Unlock()
		if status != 0 {
			writeError(w, status, "UNAUTHORIZED", "token revoked")
			return
		}
		user, ok := f.userFor(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}
		writeJSON(w, http.StatusOK, platform.MeResponse{User: user})
	}
	logout := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

	mux.HandleFunc("POST /login", login)
	mux.HandleFunc("POST /admin/login", login)
	mux.HandleFunc("GET /me", me)
	mux.HandleFunc("GET /admin/me", me)
	mux.HandleFunc("POST /logout", logout)
	mux.HandleFunc("POST /admin/logout", logout)

	mux.HandleFunc("GET /artists", func(w http.ResponseWriter, r *http.Request) {
		f.artistCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"data": []platform.Artist{{ID: "a1", Name: "Nova", Genre: "synthpop"}}})
	})
	mux.HandleFunc("POST /projects/{id}/investments", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.userFor(r); !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing token")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"data": platform.Investment{ID: "inv-1", ProjectID: r.PathValue("id"), AmountCents: 2500}})
	})
	mux.HandleFunc("POST /subscriptions/checkout", func(w http.ResponseWriter, r *http.Request) {
		f.checkoutCalls.Add(1)
		writeJSON(w, http.StatusCreated, map[string]any{"data": platform.CheckoutSession{SessionID: "cs_1", ClientSecret: "cs_1_secret", Provider: "stub"}})
	})
	mux.HandleFunc("POST /subscriptions/confirm", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.confirmed.Store(body["sessionId"])
		writeJSON(w, http.StatusOK, map[string]any{"data": platform.Subscription{ID: "sub-1", TierID: "t1", Status: "ACTIVE"}})
	})
	return mux
}

func (f *fakePlatform) userFor(r *http.Request) (platform.User, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	for _, u := range f.users {
		if token == "tok-"+u.ID {
			return u, true
		}
	}
	return platform.User{}, false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"code": code, "message": message}})
}

type harness struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, baseURL string, storage Storage) *harness {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := config.ClientConfig{APIBaseURL: baseURL, RequestTimeout: 2 * time.Second, CacheTTL: time.Minute, CacheSize: 16}
	app := NewApp(cfg, platform.New(baseURL, 2*time.Second), storage, output.NewPrinter(&stdout, &stderr, false, false), zap.NewNop())
	return &harness{app: app, stdout: &stdout, stderr: &stderr}
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Execute(context.Background(), h.app, args)
}

func setup(t *testing.T) (*fakePlatform, *httptest.Server, Storage) {
	t.Helper()
	fake := newFakePlatform()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return fake, srv, Storage{User: kv.NewMemory(), Admin: kv.NewMemory()}
}

func storedToken(t *testing.T, s kv.Storage, key string) string {
	t.Helper()
	v, _, err := s.Get(key)
	require.NoError(t, err)
	return v
}

func TestLogin_ThenWhoami(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	require.Equal(t, output.ExitSuccess, h.run("login", "--email", "mia@example.com", "--password", "pw"))
	assert.Contains(t, h.stdout.String(), "Logged in as mia (artist)")
	assert.Equal(t, "tok-u-mia", storedToken(t, storage.User, session.UserSpace.TokenKey))

	// a new process over the same storage validates the token before trusting it
	next := newHarness(t, srv.URL, storage)
	require.Equal(t, output.ExitSuccess, next.run("whoami"))
	assert.Contains(t, next.stdout.String(), "mia@example.com")
}

func TestLogin_BadPasswordExitsWithAuthCode(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	assert.Equal(t, output.ExitAuth, h.run("login", "--email", "mia@example.com", "--password", "nope"))
	assert.Contains(t, h.stderr.String(), "invalid email or password")
	assert.Empty(t, storedToken(t, storage.User, session.UserSpace.TokenKey))
}

func TestLogin_MissingFlagsIsUsageError(t *testing.T) {
	t.Setenv(passwordEnv, "")
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	assert.Equal(t, output.ExitUsageError, h.run("login", "--email", "mia@example.com"))
}

func TestProtectedCommand_WithoutSessionPointsToLogin(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	assert.Equal(t, output.ExitAuth, h.run("portfolio"))
	assert.Contains(t, h.stderr.String(), "Sign in with 'fanfund login'.")
	assert.Contains(t, h.stderr.String(), "not logged in")
}

func TestProtectedCommand_RevokedTokenIsCleared(t *testing.T) {
	fake, srv, storage := setup(t)
	require.Equal(t, output.ExitSuccess, newHarness(t, srv.URL, storage).run("login", "--email", "ivan@example.com", "--password", "pw"))

	fake.failMe(http.StatusUnauthorized)
	h := newHarness(t, srv.URL, storage)

	assert.Equal(t, output.ExitAuth, h.run("invest", "p1", "2500"))
	assert.Contains(t, h.stderr.String(), "session expired")
	assert.Empty(t, storedToken(t, storage.User, session.UserSpace.TokenKey))
}

func TestProtectedCommand_NetworkFailureKeepsToken(t *testing.T) {
	_, srv, storage := setup(t)
	require.Equal(t, output.ExitSuccess, newHarness(t, srv.URL, storage).run("login", "--email", "ivan@example.com", "--password", "pw"))

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	h := newHarness(t, deadURL, storage)
	assert.Equal(t, output.ExitNetwork, h.run("portfolio"))
	assert.Equal(t, "tok-u-ivan", storedToken(t, storage.User, session.UserSpace.TokenKey))
}

func TestInvest(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)
	require.Equal(t, output.ExitSuccess, h.run("login", "--email", "ivan@example.com", "--password", "pw"))

	require.Equal(t, output.ExitSuccess, h.run("invest", "p1", "2500"))
	assert.Contains(t, h.stdout.String(), "Invested 25.00 in project p1")
}

func TestInvest_RejectsNonPositiveAmount(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	assert.Equal(t, output.ExitUsageError, h.run("invest", "p1", "0"))
	assert.Equal(t, output.ExitUsageError, h.run("invest", "p1", "lots"))
}

func TestSubscribe_ConfirmsCheckoutSession(t *testing.T) {
	fake, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)
	require.Equal(t, output.ExitSuccess, h.run("login", "--email", "ivan@example.com", "--password", "pw"))

	require.Equal(t, output.ExitSuccess, h.run("subscribe", "t1"))
	assert.Equal(t, int32(1), fake.checkoutCalls.Load())
	assert.Equal(t, "cs_1", fake.confirmed.Load())
	assert.Contains(t, h.stdout.String(), "Subscription sub-1 is ACTIVE")
}

func TestArtists_CachedWithinProcess(t *testing.T) {
	fake, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	require.Equal(t, output.ExitSuccess, h.run("artists"))
	assert.Contains(t, h.stdout.String(), "Nova")
	require.Equal(t, output.ExitSuccess, h.run("artists"))

	assert.Equal(t, int32(1), fake.artistCalls.Load())
}

func TestLogout_ClearsCacheAndStorage(t *testing.T) {
	fake, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)
	require.Equal(t, output.ExitSuccess, h.run("login", "--email", "ivan@example.com", "--password", "pw"))
	require.Equal(t, output.ExitSuccess, h.run("artists"))

	require.Equal(t, output.ExitSuccess, h.run("logout"))
	assert.Contains(t, h.stderr.String(), "Sign in with 'fanfund login'.")
	assert.Empty(t, storedToken(t, storage.User, session.UserSpace.TokenKey))
	assert.Empty(t, storedToken(t, storage.User, session.UserSpace.IdentityKey))

	require.Equal(t, output.ExitSuccess, h.run("artists"))
	assert.Equal(t, int32(2), fake.artistCalls.Load())
}

func TestNav(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	require.Equal(t, output.ExitSuccess, h.run("nav", "--json"))
	assert.JSONEq(t, `[]`, h.stdout.String())

	require.Equal(t, output.ExitSuccess, h.run("login", "--email", "mia@example.com", "--password", "pw"))
	require.Equal(t, output.ExitSuccess, h.run("nav", "--json"))
	assert.Contains(t, h.stdout.String(), `"/create"`)

	require.Equal(t, output.ExitSuccess, h.run("nav", "--json", "--path", "/admin/projects"))
	assert.JSONEq(t, `[]`, h.stdout.String())
}

func TestAdmin_SessionIsSeparateFromUserSession(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	require.Equal(t, output.ExitSuccess, h.run("login", "--email", "mia@example.com", "--password", "pw"))
	assert.Equal(t, output.ExitAuth, h.run("admin", "projects"))
	assert.Contains(t, h.stderr.String(), "Sign in with 'fanfund admin login'.")

	require.Equal(t, output.ExitSuccess, h.run("admin", "login", "--email", "root@example.com", "--password", "pw"))
	assert.Equal(t, "tok-u-root", storedToken(t, storage.Admin, session.AdminSpace.TokenKey))
	assert.Equal(t, "tok-u-mia", storedToken(t, storage.User, session.UserSpace.TokenKey))

	require.Equal(t, output.ExitSuccess, h.run("admin", "logout"))
	assert.Equal(t, "tok-u-mia", storedToken(t, storage.User, session.UserSpace.TokenKey))
}

func TestAdmin_LoginRejectsNonAdminIdentity(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	assert.Equal(t, output.ExitAuth, h.run("admin", "login", "--email", "ivan@example.com", "--password", "pw"))
	assert.Empty(t, storedToken(t, storage.Admin, session.AdminSpace.TokenKey))
}

func TestAdmin_ReviewNeedsDecision(t *testing.T) {
	_, srv, storage := setup(t)
	h := newHarness(t, srv.URL, storage)

	assert.Equal(t, output.ExitUsageError, h.run("admin", "review", "p1", "--decision", "maybe"))
	assert.Contains(t, h.stderr.String(), "--decision must be approve or reject")
}

func TestToCLIError_APIStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   int
	}{
		{http.StatusUnauthorized, output.ExitAuth},
		{http.StatusForbidden, output.ExitAuth},
		{http.StatusBadRequest, output.ExitUsageError},
		{http.StatusConflict, output.ExitGeneral},
		{http.StatusBadGateway, output.ExitNetwork},
	}
	for _, tt := range tests {
		got := toCLIError(&platform.APIError{Status: tt.status, Code: "X", Message: "m"})
		assert.Equal(t, tt.want, got.ExitCode, "status %d", tt.status)
	}
}
