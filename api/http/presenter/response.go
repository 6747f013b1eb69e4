package presenter

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rchudinov/chainserve/pkg/serving"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// Envelope writes a serving output. Handler failures live inside the
// envelope, so the transport status stays 200.
func Envelope(c *fiber.Ctx, out serving.Output) error {
	return JSON(c, fiber.StatusOK, out)
}
