package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
)

// NewErrorHandler answers errors that escape the handlers, including the
// ones Fiber raises before routing, in the {"detail": ...} shape.
func NewErrorHandler(bodyLimit int) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		if code == fiber.StatusRequestEntityTooLarge {
			message = fmt.Sprintf("Upload is too large. Max request size: %d bytes", bodyLimit)
		}

		return c.Status(code).JSON(models.ErrorResponse{Detail: message})
	}
}
