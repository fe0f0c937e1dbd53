package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fanfund/internal/api/validate"
	"github.com/spec-kit/fanfund/internal/auth"
	"github.com/spec-kit/fanfund/internal/domain"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

// bind decodes the JSON body into dst and validates it.
func bind(c *fiber.Ctx, v *validate.Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return v.Struct(dst)
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}
