package session

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsKey = "accountID"

// TokenFromRequest extracts the session token from the cookie, falling back
// to a Bearer Authorization header for non-browser clients.
func TokenFromRequest(c *fiber.Ctx) string {
	if tok := c.Cookies(CookieName); tok != "" {
		return tok
	}
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

// NewMiddleware returns a Fiber middleware that requires a valid session.
// The session is re-verified against storage on every call; on success the
// resolved account id is set into c.Locals for handlers.
func NewMiddleware(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "not authenticated"})
		}
		accountID, err := m.Validate(c.Context(), token)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired session"})
		}
		c.Locals(localsKey, accountID)
		return c.Next()
	}
}

// AccountID returns the account id resolved by the middleware, or 0 when the
// request is anonymous.
func AccountID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(localsKey).(int64)
	return id
}
