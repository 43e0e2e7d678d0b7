package auth_test

import (
	"net/http/httptest"
	"testing"

	"gyrinx-content/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/runs", ok)
	app.Get("/health", ok)
	return app
}

func TestAuth(t *testing.T) {
	app := newApp(auth.Config{ApiKey: "secret", Public: []string{"/health"}})

	tests := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{"MissingKey", "/runs", "", fiber.StatusUnauthorized},
		{"WrongKey", "/runs", "nope", fiber.StatusUnauthorized},
		{"ValidKey", "/runs", "secret", fiber.StatusOK},
		{"PublicPath", "/health", "", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.key != "" {
				req.Header.Set(auth.Header, tt.key)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	resp, err := newApp(auth.Config{}).Test(httptest.NewRequest("GET", "/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
