package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/fanfund/internal/platform"
)

// The store resolves every failure into one of these kinds. Raw transport errors never
// escape; their text is kept for logs but they are not part of the error chain.
var (
	// ErrInvalidCredentials is a rejected login. Shown to the user, not retried.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNetwork is a transient failure. Safe to retry.
	ErrNetwork = errors.New("could not reach the platform")
	// ErrInvalidSession is an expired, revoked or malformed token. Treated as logged out.
	ErrInvalidSession = errors.New("session is no longer valid")
	// ErrSuperseded marks a late result discarded because a newer login or a logout won.
	ErrSuperseded = errors.New("superseded by a newer session change")
)

func classifyLogin(err error) error {
	switch {
	case isTransient(err):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	case platform.IsStatus(err, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusUnprocessableEntity):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
}

func classifyRefresh(err error) error {
	if isTransient(err) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidSession, err)
}

func isTransient(err error) bool {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests ||
			apiErr.Status == http.StatusRequestTimeout
	}
	return errors.Is(err, platform.ErrTransport) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
