package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"tokostore/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := apperrors.NotFound("Product not found")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.False(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Product not found", err.Error())
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("checkout: %w", apperrors.BusinessRule("Cart is empty"))

	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
	assert.Equal(t, apperrors.KindBusinessRule, apperrors.KindOf(err))
	assert.Equal(t, "Cart is empty", apperrors.Message(err, "fallback"))
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("connection refused")

	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.Equal(t, "Internal server error", apperrors.Message(err, "Internal server error"))
	assert.Equal(t, "internal", apperrors.KindOf(err).String())
}

func TestAccessKinds(t *testing.T) {
	assert.True(t, errors.Is(apperrors.Unauthorized("%s", "Invalid or expired token"), apperrors.ErrUnauthorized))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(apperrors.Forbidden("staff only")))
	assert.Equal(t, "not_allowed", apperrors.KindOf(apperrors.NotAllowed("Method %q not allowed.", "PUT")).String())
}
