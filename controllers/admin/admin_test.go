package adminController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"sab/config"
	"sab/database"
	"sab/middleware"
	"sab/models"
	adminValidator "sab/validators/admin"

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
		config.AppConfig = &config.Config{JWTKey: "test-secret"}
		database.ConnectTestDb()

		testApp = fiber.New()
		group := testApp.Group("/api/admin", middleware.JWTMiddleware, middleware.AdminMiddleware)
		group.Get("/dashboard", Dashboard)
		group.Get("/users", GetUsers)
		group.Put("/users/:id", adminValidator.UserID(), UpdateUser)
		group.Delete("/users/:id", adminValidator.UserID(), DeleteUser)
		group.Get("/settings", GetSettings)
	})
	return testApp
}

func seedUser(t *testing.T, email string, role models.UserRole) (models.User, string) {
	user := models.User{
		FirstName: "Admin",
		LastName:  "Test",
		Email:     email,
		Password:  "hashed",
		Role:      role,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.FirstName, user.LastName, string(user.Role), user.Email)
	require.NoError(t, err)
	return user, token
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	app := setupTest()
	_, token := seedUser(t, "student@example.com", models.RoleStudent)

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdateUserRole(t *testing.T) {
	app := setupTest()
	_, adminToken := seedUser(t, "boss@example.com", models.RoleAdmin)
	target, _ := seedUser(t, "promote@example.com", models.RoleStudent)

	payload, _ := json.Marshal(fiber.Map{"role": "ADMIN"})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/admin/users/%d", target.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, database.Database.Db.First(&updated, target.ID).Error)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	// an unknown role is rejected
	payload, _ = json.Marshal(fiber.Map{"role": "SUPERUSER"})
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/admin/users/%d", target.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteUserCascades(t *testing.T) {
	app := setupTest()
	_, adminToken := seedUser(t, "eraser@example.com", models.RoleAdmin)
	target, _ := seedUser(t, "leaver@example.com", models.RoleStudent)

	db := database.Database.Db

	document := models.Document{UserID: target.ID, Type: models.DocumentSOP, Title: "SOP", Content: "text", Version: 1}
	require.NoError(t, db.Create(&document).Error)
	require.NoError(t, db.Create(&models.DocumentVersion{DocumentID: document.ID, Content: "old", Version: 1}).Error)
	require.NoError(t, db.Create(&models.TestResult{UserID: target.ID, Section: models.SectionWriting, Status: models.TestEvaluated}).Error)
	require.NoError(t, db.Create(&models.TestSummary{UserID: target.ID, TestResultID: 1, Section: "writing", Score: 6}).Error)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/admin/users/%d", target.ID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.Document{}).Where("user_id = ?", target.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.DocumentVersion{}).Where("document_id = ?", document.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.TestResult{}).Where("user_id = ?", target.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.TestSummary{}).Where("user_id = ?", target.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteUserRecomputesCourseRatings(t *testing.T) {
	app := setupTest()
	admin, adminToken := seedUser(t, "cleaner@example.com", models.RoleAdmin)
	target, _ := seedUser(t, "reviewer@example.com", models.RoleStudent)
	other, _ := seedUser(t, "stays@example.com", models.RoleStudent)

	db := database.Database.Db

	course := models.Course{
		Title:       "Visa Interview Prep",
		Description: "Mock interviews",
		Category:    "visa-interview",
		PriceAmount: 1000,
		CreatedBy:   admin.ID,
	}
	require.NoError(t, db.Create(&course).Error)

	reviews := []models.CourseReview{
		{CourseID: course.ID, UserID: target.ID, Rating: 5, Date: time.Now()},
		{CourseID: course.ID, UserID: other.ID, Rating: 3, Date: time.Now()},
	}
	require.NoError(t, db.Create(&reviews).Error)
	models.RecomputeRatings(&course, reviews)
	require.NoError(t, db.Save(&course).Error)
	require.Equal(t, 2, course.RatingCount)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/admin/users/%d", target.ID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// the remaining review alone feeds the aggregate
	var refreshed models.Course
	require.NoError(t, db.First(&refreshed, course.ID).Error)
	assert.Equal(t, 1, refreshed.RatingCount)
	assert.Equal(t, 3.0, refreshed.RatingAverage)

	var reviewCount int64
	db.Model(&models.CourseReview{}).Where("course_id = ?", course.ID).Count(&reviewCount)
	assert.Equal(t, int64(1), reviewCount)
}

func TestDeleteSoleReviewerZeroesCourseRatings(t *testing.T) {
	app := setupTest()
	admin, adminToken := seedUser(t, "janitor@example.com", models.RoleAdmin)
	target, _ := seedUser(t, "onlyfan@example.com", models.RoleStudent)

	db := database.Database.Db

	course := models.Course{
		Title:       "SOP Deep Dive",
		Description: "Statement writing",
		Category:    "sop-writing",
		PriceAmount: 500,
		CreatedBy:   admin.ID,
	}
	require.NoError(t, db.Create(&course).Error)

	review := models.CourseReview{CourseID: course.ID, UserID: target.ID, Rating: 5, Date: time.Now()}
	require.NoError(t, db.Create(&review).Error)
	models.RecomputeRatings(&course, []models.CourseReview{review})
	require.NoError(t, db.Save(&course).Error)
	require.Equal(t, 5.0, course.RatingAverage)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/admin/users/%d", target.ID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var refreshed models.Course
	require.NoError(t, db.First(&refreshed, course.ID).Error)
	assert.Equal(t, 0, refreshed.RatingCount)
	assert.Equal(t, 0.0, refreshed.RatingAverage)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	app := setupTest()
	admin, adminToken := seedUser(t, "selfharm@example.com", models.RoleAdmin)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/admin/users/%d", admin.ID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
