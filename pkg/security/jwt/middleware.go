package jwt

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsUserID is the fiber locals key under which the middleware stores the
// authenticated user id (as a string).
const LocalsUserID = "userId"

// NewAuthMiddleware returns a Fiber middleware that validates the
// "Authorization: Bearer <token>" header against g. On success it sets the
// user id into c.Locals(LocalsUserID). Every failure answers with the same
// generic message; the classified cause (expired vs invalid) only goes to
// the log.
func NewAuthMiddleware(g *Generator, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthenticated(c)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthenticated(c)
		}
		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			return unauthenticated(c)
		}

		userID, err := g.Validate(tokenStr)
		if err != nil {
			if errors.Is(err, ErrExpired) {
				log.Debug("rejected expired token", slog.String("path", c.Path()))
			} else {
				log.Debug("rejected invalid token", slog.String("path", c.Path()), slog.Any("error", err))
			}
			return unauthenticated(c)
		}

		c.Locals(LocalsUserID, userID.String())
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "unauthenticated"})
}
