// Package presenter holds the response helpers shared by all HTTP handlers.
package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// Unauthenticated answers every authentication failure with the same body so
// the response does not reveal which check failed.
func Unauthenticated(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "invalid credentials")
}
