package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spec-kit/fanfund/internal/gate"
	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
	"github.com/spec-kit/fanfund/internal/session"
)

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func toCLIError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var apiErr *platform.APIError
	switch {
	case errors.Is(err, gate.ErrUnauthenticated):
		return &output.CLIError{Summary: "not logged in", ExitCode: output.ExitAuth}
	case errors.Is(err, session.ErrInvalidCredentials):
		return &output.CLIError{Summary: "invalid email or password", ExitCode: output.ExitAuth}
	case errors.Is(err, session.ErrInvalidSession):
		return &output.CLIError{
			Summary:    "session expired",
			Suggestion: "Log in again",
			ExitCode:   output.ExitAuth,
		}
	case errors.Is(err, session.ErrSuperseded):
		return &output.CLIError{
			Summary:  "session changed while the command was running",
			ExitCode: output.ExitGeneral,
		}
	case errors.Is(err, session.ErrNetwork), errors.Is(err, platform.ErrTransport):
		return &output.CLIError{
			Summary:    "could not reach the platform",
			Detail:     err.Error(),
			Suggestion: "Check FANFUND_API_URL and your connection",
			ExitCode:   output.ExitNetwork,
		}
	case errors.As(err, &apiErr):
		return apiError(apiErr)
	case errors.Is(err, errUsage):
		return &output.CLIError{
			Summary:    strings.TrimPrefix(err.Error(), errUsage.Error()+": "),
			Suggestion: "Run with --help for usage",
			ExitCode:   output.ExitUsageError,
		}
	default:
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitGeneral}
	}
}

func apiError(e *platform.APIError) *output.CLIError {
	summary := e.Message
	if summary == "" {
		summary = http.StatusText(e.Status)
	}
	out := &output.CLIError{Summary: summary, Detail: fmt.Sprintf("%d %s", e.Status, e.Code), ExitCode: output.ExitGeneral}
	switch e.Status {
	case http.StatusUnauthorized:
		out.ExitCode = output.ExitAuth
		out.Suggestion = "Log in again"
	case http.StatusForbidden:
		out.ExitCode = output.ExitAuth
		out.Suggestion = "Your account role cannot do this"
	case http.StatusTooManyRequests:
		out.Suggestion = "Wait a moment and retry"
	case http.StatusBadRequest:
		out.ExitCode = output.ExitUsageError
	}
	if e.Status >= 500 {
		out.ExitCode = output.ExitNetwork
	}
	return out
}
