package middleware

import (
	"errors"
	"strings"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	localUser  = "user"
	localToken = "token"
)

// AuthRequired is a Fiber middleware that resolves the bearer token to an active user.
// Both "Bearer <token>" and "Token <token>" are accepted.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authentication credentials were not provided")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") || parts[1] == "" {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}
		tokenString := strings.TrimSpace(parts[1])

		user, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnauthorized) {
				log.Error("failed to authenticate request", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
			}
			return deny(c, err)
		}

		c.Locals(localUser, user)
		c.Locals(localToken, tokenString)
		return c.Next()
	}
}

// AdminRequired rejects callers that are not staff. It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c, "Authentication credentials were not provided")
		}
		if !user.IsStaff {
			return deny(c, apperrors.Forbidden("You do not have permission to perform this action"))
		}
		return c.Next()
	}
}

// CurrentUser returns the user AuthRequired stored on the request, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

// CurrentToken returns the raw token of the authenticated request.
func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}

func unauthorized(c *fiber.Ctx, message string) error {
	return deny(c, apperrors.Unauthorized("%s", message))
}

// deny writes an unauthorized or forbidden error as {"error": message}.
func deny(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized
	if apperrors.KindOf(err) == apperrors.KindForbidden {
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{"error": apperrors.Message(err, "Invalid or expired token")})
}
