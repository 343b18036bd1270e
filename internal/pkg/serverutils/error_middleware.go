package serverutils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ChatFallbackMessage is what the conversational client sees when something
// unexpected blows up mid-turn. The client always needs text to render.
const ChatFallbackMessage = "Sorry, something went wrong. Please try again."

// ErrorHandlerMiddleware is the last line of defense: handler errors never
// escape as unhandled crashes. Chat routes degrade to a 200 with
// success:false so the widget keeps its conversation; everything else gets a
// standard error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && !isChatRoute(ctx.Path()) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		if isChatRoute(ctx.Path()) {
			// Client-class errors carry guidance the widget should show
			// verbatim, e.g. a missing session id. Everything else degrades
			// to the generic apology.
			response := ChatFallbackMessage
			if fiberErr != nil && fiberErr.Code >= fiber.StatusBadRequest && fiberErr.Code < fiber.StatusInternalServerError {
				response = fiberErr.Message
			}
			return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
				"success":  false,
				"response": response,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}

func isChatRoute(path string) bool {
	return strings.HasPrefix(path, "/chat")
}
