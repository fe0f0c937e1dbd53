package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fanfund/internal/config"
	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/events"
	"github.com/spec-kit/fanfund/internal/repository/repotest"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

func requireCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	require.Equal(t, code, domainErr.Code)
	return domainErr
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func recordingDispatcher() (events.Dispatcher, *recordedEvents) {
	d := events.NewInMemoryDispatcher()
	rec := &recordedEvents{}
	handler := func(_ context.Context, e events.Event) error {
		rec.mu.Lock()
		rec.events = append(rec.events, e)
		rec.mu.Unlock()
		return nil
	}
	for _, et := range []events.EventType{
		events.EventInvestmentCreated,
		events.EventProjectReviewed,
		events.EventUnlockReviewed,
		events.EventSubscriptionActivated,
	} {
		d.Subscribe(et, handler)
	}
	return d, rec
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		AdminTokenTTLMinutes:  15,
		BcryptCost:            4,
	}
}

// seedArtist registers an artist account through the auth service so the profile exists.
func seedArtist(t *testing.T, store *repotest.Store, name string) (*domain.User, *domain.Artist) {
	t.Helper()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: store.Users(), AccountRepo: store.Accounts()})
	user, _, err := svc.Register(context.Background(), RegisterInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
		Role:     domain.AccountRoleArtist,
	})
	require.NoError(t, err)
	artist, err := store.Artists().GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	return user, artist
}

func seedUser(t *testing.T, store *repotest.Store, name string, role domain.AccountRole) *domain.User {
	t.Helper()
	user := &domain.User{Username: name, Email: name + "@example.com", Role: role}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}
