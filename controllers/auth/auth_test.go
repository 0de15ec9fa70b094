package authController

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"sab/config"
	"sab/database"
	"sab/middleware"
	"sab/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	setupOnce sync.Once
	testApp   *fiber.App
)

func setupTest() *fiber.App {
	setupOnce.Do(func() {
		config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 10}
		database.ConnectTestDb()

		testApp = fiber.New()
		group := testApp.Group("/api/auth")
		group.Post("/signup", Signup)
		group.Post("/login", Login)
		group.Get("/profile", middleware.JWTMiddleware, GetProfile)
		group.Put("/profile", middleware.JWTMiddleware, UpdateProfile)
	})
	return testApp
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (map[string]interface{}, int) {
	t.Helper()
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	body := make(map[string]interface{})
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body, resp.StatusCode
}

func TestSignupAndLogin(t *testing.T) {
	app := setupTest()

	body, status := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"firstName": "Nusrat",
		"lastName":  "Jahan",
		"email":     "Nusrat@Example.com",
		"password":  "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	// email is stored lowercased and the hash never leaks
	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "nusrat@example.com").First(&user).Error)
	assert.Equal(t, "USA", user.TargetCountry)
	assert.NotEqual(t, "secret123", user.Password)

	userJSON := data["user"].(map[string]interface{})
	_, leaked := userJSON["password"]
	assert.False(t, leaked)

	body, status = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "nusrat@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["token"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := setupTest()

	payload := fiber.Map{
		"firstName": "Rakib",
		"lastName":  "Hossain",
		"email":     "rakib@example.com",
		"password":  "secret123",
	}

	_, status := postJSON(t, app, "/api/auth/signup", payload)
	require.Equal(t, fiber.StatusCreated, status)

	_, status = postJSON(t, app, "/api/auth/signup", payload)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestSignupValidation(t *testing.T) {
	app := setupTest()

	body, status := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"firstName": "",
		"lastName":  "Only",
		"email":     "no-at-sign",
		"password":  "123",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	errors := body["data"].(map[string]interface{})
	assert.Contains(t, errors, "firstName")
	assert.Contains(t, errors, "email")
	assert.Contains(t, errors, "password")
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupTest()

	_, status := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"firstName": "Mim",
		"lastName":  "Akter",
		"email":     "mim@example.com",
		"password":  "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status)

	_, status = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "mim@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestUpdateProfilePartial(t *testing.T) {
	app := setupTest()

	body, status := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"firstName": "Sadia",
		"lastName":  "Islam",
		"email":     "sadia@example.com",
		"password":  "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	token := body["data"].(map[string]interface{})["token"].(string)

	payload, _ := json.Marshal(fiber.Map{"targetCountry": "Canada", "language": "bn"})
	req := httptest.NewRequest("PUT", "/api/auth/profile", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "sadia@example.com").First(&user).Error)
	assert.Equal(t, "Canada", user.TargetCountry)
	assert.Equal(t, "bn", user.Language)
	assert.Equal(t, "Sadia", user.FirstName)
}
