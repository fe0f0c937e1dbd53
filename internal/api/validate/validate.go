// Package validate wraps go-playground/validator with JSON field names and the
// platform's own rules.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/fanfund/internal/domain"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Validator checks request DTOs.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator with the custom rules registered.
func New() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		username := fl.Field().String()
		return usernamePattern.MatchString(username) && len(username) >= 3 && len(username) <= 30
	})
	_ = validate.RegisterValidation("account_role", func(fl validator.FieldLevel) bool {
		return domain.AccountRole(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("decision", func(fl validator.FieldLevel) bool {
		return domain.ReviewDecision(fl.Field().String()).Valid()
	})

	return &Validator{validator: validate}
}

// Struct validates s and returns a VALIDATION_FAILED domain error listing each field.
func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = message(fe)
	}
	return apperrors.NewValidationError("validation failed", details)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "username":
		return "username must be 3-30 letters, numbers, dots, hyphens or underscores"
	case "account_role":
		return "role must be one of artist, investor, label, fan"
	case "decision":
		return "decision must be approve or reject"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
