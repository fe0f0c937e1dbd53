package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fanfund/internal/domain"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

// RequireRole ensures the caller's account has one of the allowed roles.
func RequireRole(allowed ...domain.AccountRole) fiber.Handler {
	allowedSet := make(map[domain.AccountRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller authenticated in the admin space.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil || principal.Claims == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.User.IsAdmin || principal.Claims.Audience != domain.AudienceAdmin {
			return apperrors.NewForbidden("administrator required")
		}
		return c.Next()
	}
}
