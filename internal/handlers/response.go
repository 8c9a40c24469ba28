package handlers

import (
	"errors"
	"fmt"

	"tokostore/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindValidation:   fiber.StatusBadRequest,
	apperrors.KindBusinessRule: fiber.StatusBadRequest,
	apperrors.KindUnauthorized: fiber.StatusUnauthorized,
	apperrors.KindForbidden:    fiber.StatusForbidden,
	apperrors.KindNotFound:     fiber.StatusNotFound,
	apperrors.KindConflict:     fiber.StatusConflict,
	apperrors.KindNotAllowed:   fiber.StatusMethodNotAllowed,
}

// respondError writes err as {"error": message} with the status of its kind.
// Internal errors are logged and replaced by a generic message.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status, ok := kindStatus[apperrors.KindOf(err)]
	if !ok {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": apperrors.Message(err, "Request failed"),
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Invalid request body",
		"message": err.Error(),
	})
}

// validateStruct runs validator tags on req and writes a 400 when it fails.
// The returned bool reports whether the handler should continue.
func validateStruct(c *fiber.Ctx, validate *validator.Validate, req any) (bool, error) {
	err := validate.Struct(req)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, invalidBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Validation failed",
		"errors": errorMessages,
	})
}

// methodNotAllowed answers routes that exist only to refuse a verb.
func methodNotAllowed(c *fiber.Ctx) error {
	return respondError(c, zap.L(), apperrors.NotAllowed("Method \"%s\" not allowed.", c.Method()))
}
