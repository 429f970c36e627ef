package middleware

import (
	"credlyse/config"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"user_id": c.Locals("userId"),
			"role":    c.Locals("userRole"),
		})
	})
	app.Get("/creator", JWTMiddleware, RequireRole("CREATOR", "ADMIN"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	app := newAuthTestApp()

	token, err := GenerateJWT(42, "Test User", "STUDENT", "test@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	app := newAuthTestApp()

	studentToken, err := GenerateJWT(1, "Student", "STUDENT", "s@example.com")
	require.NoError(t, err)
	creatorToken, err := GenerateJWT(2, "Creator", "CREATOR", "c@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/creator", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/creator", nil)
	req.Header.Set("Authorization", "Bearer "+creatorToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
