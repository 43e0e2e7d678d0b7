// Package auth protects the HTTP service with a shared API key.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Header carries the API key.
const Header = "X-API-Key"

// Config configures the middleware.
type Config struct {
	// ApiKey is the expected key. An empty key disables the check.
	ApiKey string

	// Public lists paths served without a key.
	Public []string
}

// New returns a middleware that rejects requests without the configured key.
func New(cfg Config) fiber.Handler {
	public := make(map[string]struct{}, len(cfg.Public))
	for _, p := range cfg.Public {
		public[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if _, ok := public[c.Path()]; ok {
			return c.Next()
		}
		key := c.Get(Header)
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}
