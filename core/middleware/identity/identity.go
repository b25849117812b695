package identity

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsKey is the fiber locals key holding the authenticated user id.
const LocalsKey = "user_id"

// Config configures the identity middleware.
type Config struct {
	// Header carries the account id asserted by the fronting auth layer.
	Header string
	// PublicPaths are path prefixes that do not require an identity.
	PublicPaths []string
}

// New returns a middleware that copies the caller's account id from the
// configured header into the request locals. Requests without one are
// rejected with 401.
func New(cfg Config) fiber.Handler {
	header := cfg.Header
	if header == "" {
		header = "X-User-ID"
	}
	return func(c *fiber.Ctx) error {
		for _, p := range cfg.PublicPaths {
			if strings.HasPrefix(c.Path(), p) {
				return c.Next()
			}
		}

		uid := strings.TrimSpace(c.Get(header))
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user identity",
			})
		}
		c.Locals(LocalsKey, uid)
		return c.Next()
	}
}

// UserID returns the authenticated user id stored by the middleware.
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(LocalsKey).(string)
	return uid
}
