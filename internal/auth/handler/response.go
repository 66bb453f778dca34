package handler

import (
	"errors"

	autherror "github.com/AnthoniusHendriyanto/eventhub-auth/internal/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgInvalidBody        = "invalid request body"
	msgEmailInUse         = "an account with this email already exists"
	msgInvalidCredentials = "invalid email or password"
	msgMissingToken       = "authentication token required"
	msgInvalidToken       = "invalid or expired token"
	msgUserNotFound       = "user not found"
	msgUnavailable        = "service temporarily unavailable, please retry"
	msgInternal           = "internal server error"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

// classify maps an error to its HTTP status and public message. Only
// validation failures echo anything derived from the error itself.
func classify(err error) (int, string) {
	var vErr *autherror.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, vErr.Error()
	case errors.Is(err, autherror.ErrValidation):
		return fiber.StatusBadRequest, msgInvalidBody
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return fiber.StatusConflict, msgEmailInUse
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, autherror.ErrMissingToken):
		return fiber.StatusUnauthorized, msgMissingToken
	case errors.Is(err, autherror.ErrTokenExpired), errors.Is(err, autherror.ErrInvalidToken):
		return fiber.StatusForbidden, msgInvalidToken
	case errors.Is(err, autherror.ErrUserNotFound):
		return fiber.StatusNotFound, msgUserNotFound
	case errors.Is(err, autherror.ErrResourceUnavailable):
		return fiber.StatusServiceUnavailable, msgUnavailable
	default:
		return fiber.StatusInternalServerError, msgInternal
	}
}

// respondError writes the failure envelope for err. Server-side failures
// are logged with the underlying error, which never reaches the client.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Any("request_id", c.Locals(requestIDKey)),
			zap.Error(err),
		)
	}
	return fail(c, status, message)
}

// errorHandler renders errors that escape a handler, including routing
// errors raised by Fiber itself and recovered panics.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code >= fiber.StatusInternalServerError {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
				return fail(c, fe.Code, msgInternal)
			}
			return fail(c, fe.Code, fe.Message)
		}
		return respondError(c, logger, err)
	}
}
