// Package gate guards protected surfaces behind an authenticated session.
package gate

import (
	"context"
	"errors"
	"sync"

	"github.com/spec-kit/fanfund/internal/session"
)

// Status is what a mounted gate shows.
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ErrUnauthenticated is returned by Guard when the protected function did not run.
var ErrUnauthenticated = errors.New("not logged in")

// Flags is the only view of the session store a gate gets.
type Flags interface {
	Loading() bool
	Authenticated() bool
}

// Navigator performs the redirect to the login surface.
type Navigator interface {
	Redirect(path string)
}

// Gate is one mount of a guard. Once it leaves loading it never goes back; a new
// mount is a new Gate.
type Gate struct {
	flags     Flags
	nav       Navigator
	loginPath string

	mu         sync.Mutex
	status     Status
	redirected bool
}

// New mounts a gate in the loading state.
func New(flags Flags, nav Navigator, loginPath string) *Gate {
	return &Gate{flags: flags, nav: nav, loginPath: loginPath, status: StatusLoading}
}

// Status returns the last evaluated status without re-reading the flags.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Evaluate re-reads the flags and advances the state machine. Calling it repeatedly
// is safe: the redirect fires at most once per mount.
func (g *Gate) Evaluate() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusLoading {
		return g.status
	}
	if g.flags.Loading() {
		return StatusLoading
	}
	if g.flags.Authenticated() {
		g.status = StatusAuthenticated
		return g.status
	}

	g.status = StatusUnauthenticated
	if !g.redirected {
		g.redirected = true
		if g.nav != nil {
			g.nav.Redirect(g.loginPath)
		}
	}
	return g.status
}

// Source is a session store as seen by Guard.
type Source interface {
	Flags
	Refresh(ctx context.Context) (*session.Session, error)
	Current() *session.Session
}

// Guard mounts a gate over src, resolves a pending validation with one refresh and runs
// fn only when the session is authenticated. Any other outcome returns ErrUnauthenticated
// after the gate has redirected.
func Guard(ctx context.Context, src Source, nav Navigator, loginPath string, fn func(*session.Session) error) error {
	g := New(src, nav, loginPath)

	if g.Evaluate() == StatusLoading {
		// failures surface through the flags; the kind itself is not the gate's concern
		_, _ = src.Refresh(ctx)
	}

	switch g.Evaluate() {
	case StatusAuthenticated:
		sess := src.Current()
		if sess == nil {
			return ErrUnauthenticated
		}
		return fn(sess)
	case StatusLoading:
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrUnauthenticated
	default:
		return ErrUnauthenticated
	}
}
