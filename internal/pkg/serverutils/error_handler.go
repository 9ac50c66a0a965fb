package serverutils

import (
	"errors"

	"catalog-chat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors to HTTP responses. A double
// provider failure becomes a generic 503 so provider internals never
// reach the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		}

		var unavailableErr *llm.CompletionUnavailableError
		if errors.As(err, &unavailableErr) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse("The assistant is temporarily unavailable. Please try again shortly."))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
