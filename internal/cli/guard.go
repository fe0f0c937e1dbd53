package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/gate"
	"github.com/spec-kit/fanfund/internal/session"
)

// guarded runs fn with the confirmed session of store. A token the platform rejected is
// removed from storage; a network failure leaves it in place for the next attempt.
func guarded(cmd *cobra.Command, app *App, store *session.Store, fn func(context.Context, *session.Session) error) error {
	ctx, cancel := withTimeout(cmd, app)
	defer cancel()

	var refreshErr error
	if store.Loading() {
		_, refreshErr = store.Refresh(ctx)
	}

	nav := &hintNavigator{printer: app.Printer}
	err := gate.Guard(ctx, store, nav, store.Space().LoginPath, func(s *session.Session) error {
		return fn(ctx, s)
	})
	if !errors.Is(err, gate.ErrUnauthenticated) {
		return err
	}

	switch {
	case errors.Is(refreshErr, session.ErrNetwork):
		return refreshErr
	case errors.Is(refreshErr, session.ErrInvalidSession):
		if _, clearErr := store.ClearStale(); clearErr != nil {
			app.Logger.Warn("remove stale session", zap.Error(clearErr))
		}
		return refreshErr
	}
	return err
}
