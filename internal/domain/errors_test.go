package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFound("country", "ID"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.Equal(t, "service: country ID not found", wrapped.Error())

	assert.True(t, IsConflict(Conflict("currency", "code already exists")))
	assert.True(t, IsValidation(Invalid("code", "is required")))
	assert.True(t, IsUnauthorized(UnauthorizedError{}))
	assert.True(t, IsForbidden(ForbiddenError{Permission: "roles.update"}))

	cause := errors.New("boom")
	err := Internal("save failed", cause)
	assert.True(t, IsInternal(err))
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrorDetails(t *testing.T) {
	single := ValidationError{Field: "countryId", Msg: "country does not exist"}
	assert.Equal(t, []FieldError{{Field: "countryId", Message: "country does not exist"}}, single.Details())

	multi := ValidationError{Fields: []FieldError{
		{Field: "code", Rule: "required", Message: "is required"},
		{Field: "name", Rule: "max", Message: "must be at most 100 characters"},
	}}
	assert.Len(t, multi.Details(), 2)
	assert.Equal(t, "code: is required; name: must be at most 100 characters", multi.Error())
}
