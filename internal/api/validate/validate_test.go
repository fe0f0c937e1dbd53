package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

type sample struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,account_role"`
	Amount   int64  `json:"amountCents" validate:"gt=0"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(sample{Username: "x", Email: "nope", Role: "admin"})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Contains(t, de.Details, "username")
	assert.Contains(t, de.Details, "email")
	assert.Contains(t, de.Details, "role")
	assert.Equal(t, "amountCents must be greater than 0", de.Details["amountCents"])
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(sample{Username: "mia.k", Email: "mia@example.com", Role: "label", Amount: 1}))
}
