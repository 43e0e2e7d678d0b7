// Package rayid tags every request with a unique id.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header carries the ray id on requests and responses.
	Header = "X-Ray-ID"
	// LocalsKey is where the ray id is stored on the fiber context.
	LocalsKey = "ray_id"
)

// New returns a middleware that reuses an incoming X-Ray-ID or generates one.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
