package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/fanfund/internal/kv"
	"github.com/spec-kit/fanfund/internal/platform"
)

const revokeTimeout = 3 * time.Second

// Authenticator is the slice of the platform API the store depends on.
type Authenticator interface {
	Login(ctx context.Context, basePath string, creds platform.Credentials) (*platform.LoginResponse, error)
	Me(ctx context.Context, basePath, token string) (*platform.User, error)
	Logout(ctx context.Context, basePath, token string) error
}

// Navigator performs the full redirect that follows a logout.
type Navigator interface {
	Redirect(path string)
}

// Invalidator drops cached query results that depend on who is logged in.
type Invalidator interface {
	InvalidateAll()
}

// Store is the single source of truth for one actor space. It is the only reader and
// writer of that space's storage slots.
type Store struct {
	space        Space
	storage      kv.Storage
	api          Authenticator
	nav          Navigator
	logger       *zap.Logger
	invalidators []Invalidator
	refreshGroup singleflight.Group

	mu sync.Mutex
	// epoch is bumped by every successful login persist and every logout; results of
	// requests started under an older epoch are discarded.
	epoch     uint64
	pending   string
	rejected  string
	confirmed *Session
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithNavigator sets the navigator used after logout.
func WithNavigator(nav Navigator) Option {
	return func(s *Store) { s.nav = nav }
}

// WithInvalidator registers a cache to clear whenever the identity changes.
func WithInvalidator(inv Invalidator) Option {
	return func(s *Store) { s.invalidators = append(s.invalidators, inv) }
}

// NewStore creates the store for one actor space.
func NewStore(space Space, storage kv.Storage, api Authenticator, opts ...Option) *Store {
	s := &Store{
		space:   space,
		storage: storage,
		api:     api,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("space", space.Name))
	return s
}

// Space returns the actor space this store serves.
func (s *Store) Space() Space {
	return s.space
}

// Login exchanges credentials for a token, persists identity and token together and then
// confirms them with a refresh. The session is visible to Current only after that
// refresh resolved; when it fails the slots are removed again.
func (s *Store) Login(ctx context.Context, creds platform.Credentials) (*Session, error) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	resp, err := s.api.Login(ctx, s.space.BasePath, creds)
	if err != nil {
		kind := classifyLogin(err)
		s.logger.Info("login failed", zap.Error(kind))
		return nil, kind
	}
	if s.space.RequireAdmin && !resp.User.IsAdmin {
		s.logger.Warn("login returned a non-admin identity", zap.String("subject_id", resp.User.ID))
		return nil, ErrInvalidCredentials
	}

	sess := fromUser(resp.User, resp.Token)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded login response")
		return nil, ErrSuperseded
	}
	if err := s.persistLocked(sess); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.epoch++
	persistedEpoch := s.epoch
	s.pending = sess.Token
	s.rejected = ""
	s.confirmed = nil
	s.mu.Unlock()

	s.invalidate()
	s.logger.Info("login succeeded", zap.String("subject_id", sess.SubjectID))

	confirmed, err := s.Refresh(ctx)
	if err != nil {
		if !errors.Is(err, ErrSuperseded) {
			s.rollbackLogin(persistedEpoch, sess.Token)
		}
		return nil, err
	}
	if confirmed == nil || confirmed.Token != sess.Token {
		return nil, ErrSuperseded
	}
	return confirmed, nil
}

// Current reflects persisted state without calling the platform. A token that failed
// validation, or that a login has not confirmed yet, yields nil even though it may still
// sit in storage.
func (s *Store) Current() *Session {
	persisted, ok := s.readPersisted()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case persisted.Token == s.rejected, persisted.Token == s.pending:
		return nil
	case s.confirmed != nil && s.confirmed.Token == persisted.Token:
		c := *s.confirmed
		return &c
	default:
		return persisted
	}
}

// State projects the store onto the loading/authenticated flags.
func (s *Store) State() State {
	persisted, ok := s.readPersisted()
	if !ok {
		return State{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case persisted.Token == s.rejected:
		return State{}
	case persisted.Token != s.pending && s.confirmed != nil && s.confirmed.Token == persisted.Token:
		return State{Authenticated: true}
	default:
		return State{Loading: true}
	}
}

// Loading reports whether validation of the persisted token has not resolved yet.
func (s *Store) Loading() bool {
	return s.State().Loading
}

// Authenticated reports whether the platform vouched for the persisted token.
func (s *Store) Authenticated() bool {
	return s.State().Authenticated
}

// Refresh re-validates the persisted token against the who-am-I endpoint. No persisted
// session yields (nil, nil). On failure it returns nil with ErrInvalidSession or
// ErrNetwork and leaves storage alone; see ClearStale. Concurrent refreshes of the same
// token share one request.
func (s *Store) Refresh(ctx context.Context) (*Session, error) {
	// the epoch must predate the read: a logout between the two would otherwise go unseen
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	persisted, ok := s.readPersisted()
	if !ok {
		return nil, nil
	}
	token := persisted.Token

	v, err, _ := s.refreshGroup.Do(token, func() (any, error) {
		return s.api.Me(ctx, s.space.BasePath, token)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.logger.Debug("discarding superseded refresh response")
		return nil, ErrSuperseded
	}

	if err != nil {
		kind := classifyRefresh(err)
		s.rejectLocked(token)
		s.logger.Info("session validation failed", zap.Error(kind))
		return nil, kind
	}

	sess := fromUser(*v.(*platform.User), token)
	if sess.SubjectID != persisted.SubjectID {
		s.rejectLocked(token)
		s.logger.Warn("platform identity does not match persisted identity",
			zap.String("persisted", persisted.SubjectID),
			zap.String("platform", sess.SubjectID))
		return nil, ErrInvalidSession
	}
	if s.space.RequireAdmin && !sess.Admin {
		s.rejectLocked(token)
		return nil, ErrInvalidSession
	}

	s.confirmed = sess
	s.pending = ""
	s.rejected = ""

	c := *sess
	return &c, nil
}

// Logout clears both slots unconditionally, best-effort revokes the token on the
// platform and then redirects to the login surface so no in-memory state survives.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	token, _, readErr := s.storage.Get(s.space.TokenKey)
	if readErr != nil {
		s.logger.Warn("read token before logout", zap.Error(readErr))
	}
	s.epoch++
	clearErr := s.clearLocked()
	s.pending = ""
	s.rejected = ""
	s.confirmed = nil
	s.mu.Unlock()

	s.invalidate()

	if token != "" {
		revokeCtx, cancel := context.WithTimeout(ctx, revokeTimeout)
		if err := s.api.Logout(revokeCtx, s.space.BasePath, token); err != nil {
			s.logger.Warn("token revocation failed", zap.Error(err))
		}
		cancel()
	}

	if s.nav != nil {
		s.nav.Redirect(s.space.LoginPath)
	}

	if clearErr != nil {
		return fmt.Errorf("clear session: %w", clearErr)
	}
	s.logger.Info("logged out")
	return nil
}

// ClearStale removes the persisted slots when their token has failed validation. It
// reports whether anything was removed.
func (s *Store) ClearStale() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.storage.Get(s.space.TokenKey)
	if err != nil {
		return false, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" || token != s.rejected {
		return false, nil
	}

	s.epoch++
	s.rejected = ""
	if err := s.clearLocked(); err != nil {
		return false, fmt.Errorf("clear stale session: %w", err)
	}
	return true, nil
}

// rollbackLogin removes the slots of a login whose confirmation failed, unless a newer
// session change has replaced them since.
func (s *Store) rollbackLogin(epoch uint64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return
	}
	stored, ok, err := s.storage.Get(s.space.TokenKey)
	if err != nil || !ok || stored != token {
		return
	}
	if err := s.clearLocked(); err != nil {
		s.logger.Warn("roll back unconfirmed login", zap.Error(err))
		return
	}
	s.epoch++
	s.pending = ""
	s.rejected = ""
	s.confirmed = nil
}

func (s *Store) persistLocked(sess *Session) error {
	raw, err := json.Marshal(recordFor(sess))
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.storage.Set(s.space.IdentityKey, string(raw)); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	if err := s.storage.Set(s.space.TokenKey, sess.Token); err != nil {
		if rbErr := s.storage.Remove(s.space.IdentityKey); rbErr != nil {
			s.logger.Error("rollback identity after failed token write", zap.Error(rbErr))
		}
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

func (s *Store) clearLocked() error {
	return errors.Join(
		s.storage.Remove(s.space.TokenKey),
		s.storage.Remove(s.space.IdentityKey),
	)
}

func (s *Store) rejectLocked(token string) {
	s.rejected = token
	if s.pending == token {
		s.pending = ""
	}
	if s.confirmed != nil && s.confirmed.Token == token {
		s.confirmed = nil
	}
}

// readPersisted returns the persisted session when token and identity are both present
// and were written together.
func (s *Store) readPersisted() (*Session, bool) {
	token, ok, err := s.storage.Get(s.space.TokenKey)
	if err != nil {
		s.logger.Warn("read token", zap.Error(err))
		return nil, false
	}
	if !ok || token == "" {
		return nil, false
	}

	raw, ok, err := s.storage.Get(s.space.IdentityKey)
	if err != nil {
		s.logger.Warn("read identity", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var rec identityRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.Warn("decode identity", zap.Error(err))
		return nil, false
	}
	if rec.TokenDigest != tokenDigest(token) || rec.SubjectID == "" {
		s.logger.Debug("identity was not written with the stored token")
		return nil, false
	}
	return rec.session(token), true
}

func (s *Store) invalidate() {
	for _, inv := range s.invalidators {
		inv.InvalidateAll()
	}
}
