package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fanfund/internal/session"
)

type fakeFlags struct {
	loading       bool
	authenticated bool
}

func (f *fakeFlags) Loading() bool       { return f.loading }
func (f *fakeFlags) Authenticated() bool { return f.authenticated }

type recordingNavigator struct{ paths []string }

func (n *recordingNavigator) Redirect(path string) { n.paths = append(n.paths, path) }

func TestGate_NoRedirectWhileLoadingEvenIfUnauthenticated(t *testing.T) {
	flags := &fakeFlags{loading: true, authenticated: false}
	nav := &recordingNavigator{}
	g := New(flags, nav, "/login")

	for i := 0; i < 5; i++ {
		assert.Equal(t, StatusLoading, g.Evaluate())
	}
	assert.Empty(t, nav.paths)
}

func TestGate_UnauthenticatedRedirectsExactlyOnce(t *testing.T) {
	flags := &fakeFlags{loading: true}
	nav := &recordingNavigator{}
	g := New(flags, nav, "/login")

	assert.Equal(t, StatusLoading, g.Evaluate())
	flags.loading = false

	for i := 0; i < 3; i++ {
		assert.Equal(t, StatusUnauthenticated, g.Evaluate())
	}
	assert.Equal(t, []string{"/login"}, nav.paths)
}

func TestGate_AuthenticatedIsTerminal(t *testing.T) {
	flags := &fakeFlags{authenticated: true}
	nav := &recordingNavigator{}
	g := New(flags, nav, "/admin/login")

	assert.Equal(t, StatusAuthenticated, g.Evaluate())

	// a later logout is a new mount's problem
	flags.authenticated = false
	flags.loading = true
	assert.Equal(t, StatusAuthenticated, g.Evaluate())
	assert.Empty(t, nav.paths)
}

func TestGate_NeverReturnsToLoading(t *testing.T) {
	flags := &fakeFlags{}
	g := New(flags, &recordingNavigator{}, "/login")

	assert.Equal(t, StatusUnauthenticated, g.Evaluate())
	flags.loading = true
	assert.Equal(t, StatusUnauthenticated, g.Evaluate())
	assert.Equal(t, StatusUnauthenticated, g.Status())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
	assert.Equal(t, "unknown", Status(42).String())
}

// fakeSource settles into the configured flags once refreshed.
type fakeSource struct {
	fakeFlags
	refreshes  int
	afterLoad  fakeFlags
	sess       *session.Session
	refreshErr error
}

func (f *fakeSource) Refresh(context.Context) (*session.Session, error) {
	f.refreshes++
	f.fakeFlags = f.afterLoad
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.sess, nil
}

func (f *fakeSource) Current() *session.Session {
	if !f.authenticated {
		return nil
	}
	return f.sess
}

func TestGuard_RunsWhenRefreshConfirms(t *testing.T) {
	sess := &session.Session{SubjectID: "u-1"}
	src := &fakeSource{
		fakeFlags: fakeFlags{loading: true},
		afterLoad: fakeFlags{authenticated: true},
		sess:      sess,
	}
	nav := &recordingNavigator{}

	var got *session.Session
	err := Guard(context.Background(), src, nav, "/login", func(s *session.Session) error {
		got = s
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, src.refreshes)
	assert.Empty(t, nav.paths)
}

func TestGuard_SkipsRefreshWhenAlreadyConfirmed(t *testing.T) {
	src := &fakeSource{
		fakeFlags: fakeFlags{authenticated: true},
		afterLoad: fakeFlags{authenticated: true},
		sess:      &session.Session{SubjectID: "u-1"},
	}

	err := Guard(context.Background(), src, &recordingNavigator{}, "/login", func(*session.Session) error { return nil })
	require.NoError(t, err)
	assert.Zero(t, src.refreshes)
}

func TestGuard_FailedRefreshRedirects(t *testing.T) {
	src := &fakeSource{
		fakeFlags:  fakeFlags{loading: true},
		refreshErr: session.ErrNetwork,
	}
	nav := &recordingNavigator{}
	ran := false

	err := Guard(context.Background(), src, nav, "/login", func(*session.Session) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, ran)
	assert.Equal(t, []string{"/login"}, nav.paths)
}

func TestGuard_PropagatesProtectedError(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{
		fakeFlags: fakeFlags{authenticated: true},
		sess:      &session.Session{SubjectID: "u-1"},
	}

	err := Guard(context.Background(), src, nil, "/login", func(*session.Session) error { return boom })
	assert.ErrorIs(t, err, boom)
}
