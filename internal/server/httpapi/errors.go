package httpapi

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a service error to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "Transcription timed out"
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest, validationMessage(err)
	case errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusUnauthorized, "Token has expired"
	case errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		return fiber.StatusForbidden, "Unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		return fiber.StatusConflict, "Already exists"
	case errors.Is(err, common.ErrorUpstream):
		return fiber.StatusBadGateway, "Transcription provider unavailable"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

// validationMessage strips the sentinel prefix from "validation error: ...".
func validationMessage(err error) string {
	msg := err.Error()
	prefix := common.ErrorValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i != -1 {
		msg = msg[i+len(prefix):]
	}
	if msg == common.ErrorValidation.Error() || msg == "" {
		return "Invalid request"
	}
	return msg
}

// writeError sends {"error": msg}. An empty msg uses the default for err.
func writeError(c *fiber.Ctx, err error, msg string) error {
	status, def := statusFor(err)
	if msg == "" {
		msg = def
	}
	return c.Status(status).JSON(errorResponse{Error: msg})
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes or oversized bodies, in the same JSON shape.
func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message})
		}
		logger.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Internal server error"})
	}
}
