package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardedApp() *fiber.App {
	app := fiber.New()
	app.Use(RequireServiceToken())
	app.Get("/guarded", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestRequireServiceToken(t *testing.T) {
	t.Setenv("INGEST_SERVICE_TOKEN", "secret")
	app := guardedApp()

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("X-Service-Token", "nope")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("X-Service-Token", "secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("Authorization", "Bearer secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestRequireServiceTokenUnconfigured(t *testing.T) {
	t.Setenv("INGEST_SERVICE_TOKEN", "")
	app := guardedApp()

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("X-Service-Token", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
