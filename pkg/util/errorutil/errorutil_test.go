package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("load project: %w", NewNotFound("project", nil))
	assert.Equal(t, "NOT_FOUND", ToDomainError(wrapped).Code)

	noRows := ToDomainError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, noRows.HTTPStatus)

	internal := ToDomainError(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.Equal(t, "internal server error", internal.Message)
	assert.Contains(t, internal.Error(), "connection reset")
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, ToDomainError(NewTooManyRequests("slow down")).HTTPStatus)
	assert.Equal(t, http.StatusConflict, ToDomainError(NewConflict("taken", nil)).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewForbidden("no")).HTTPStatus)
	assert.Equal(t, "VALIDATION_FAILED", ToDomainError(NewValidationError("bad", nil)).Code)
}
