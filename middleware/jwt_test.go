package middleware

import (
	"net/http/httptest"
	"testing"

	"sab/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newTestApp() *fiber.App {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"userId": c.Locals("userId"),
		})
	})
	app.Get("/open", OptionalJWTMiddleware, func(c *fiber.Ctx) error {
		userID, authed := c.Locals("userId").(uint)
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"authed": authed,
			"userId": userID,
		})
	})
	return app
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	app := newTestApp()

	token, err := GenerateJWT(42, "Ayesha", "Rahman", "STUDENT", "ayesha@example.com")
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareMissingToken(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareMalformedToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareWrongSecret(t *testing.T) {
	app := newTestApp()

	config.AppConfig.JWTKey = "other-secret"
	token, err := GenerateJWT(42, "Ayesha", "Rahman", "STUDENT", "ayesha@example.com")
	assert.NoError(t, err)
	config.AppConfig.JWTKey = "test-secret"

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalJWTMiddleware(t *testing.T) {
	app := newTestApp()

	// anonymous requests pass through
	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// an invalid token degrades to anonymous instead of failing
	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// a valid token resolves the user
	token, err := GenerateJWT(7, "Tanvir", "Hasan", "STUDENT", "tanvir@example.com")
	assert.NoError(t, err)
	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
