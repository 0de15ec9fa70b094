package courseController

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
	courseValidator "sab/validators/course"

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
		group := testApp.Group("/api/courses")
		group.Get("/", middleware.OptionalJWTMiddleware, GetAllCourses)
		group.Get("/purchased", middleware.JWTMiddleware, GetPurchasedCourses)
		group.Get("/:id", middleware.OptionalJWTMiddleware, courseValidator.CourseID(), GetCourseDetails)
		group.Put("/:id/progress", middleware.JWTMiddleware, courseValidator.CourseID(), courseValidator.Progress(), UpdateProgress)
		group.Post("/:id/reviews", middleware.JWTMiddleware, courseValidator.CourseID(), AddReview)
	})
	return testApp
}

func seedUser(t *testing.T, email string) (models.User, string) {
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hashed",
		Role:      models.RoleStudent,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.FirstName, user.LastName, string(user.Role), user.Email)
	require.NoError(t, err)
	return user, token
}

func seedCourse(t *testing.T) (models.Course, []models.CourseVideo) {
	course := models.Course{
		Title:       "Visa Interview Mastery",
		Description: "Mock interviews and common questions",
		Category:    "visa-interview",
		Level:       "beginner",
		PriceAmount: 1500,
		IsActive:    true,
		CreatedBy:   1,
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	videos := []models.CourseVideo{
		{CourseID: course.ID, Title: "Intro", VideoURL: "https://cdn.example.com/v1.mp4", Duration: 120, OrderIndex: 1, IsPreview: true},
		{CourseID: course.ID, Title: "Deep dive", VideoURL: "https://cdn.example.com/v2.mp4", Duration: 600, OrderIndex: 2},
		{CourseID: course.ID, Title: "Wrap up", VideoURL: "https://cdn.example.com/v3.mp4", Duration: 300, OrderIndex: 3},
	}
	for i := range videos {
		require.NoError(t, database.Database.Db.Create(&videos[i]).Error)
	}
	return course, videos
}

func seedPurchase(t *testing.T, userID, courseID uint) models.PurchasedCourse {
	purchase := models.PurchasedCourse{
		UserID:          userID,
		CourseID:        courseID,
		PurchaseDate:    time.Now(),
		CompletedVideos: []byte("[]"),
	}
	require.NoError(t, database.Database.Db.Create(&purchase).Error)
	return purchase
}

func TestAnonymousDetailHidesLockedVideos(t *testing.T) {
	app := setupTest()
	course, _ := seedCourse(t)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/courses/%d", course.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			HasPurchased bool `json:"hasPurchased"`
			Videos       []struct {
				Title     string  `json:"title"`
				VideoURL  *string `json:"videoUrl"`
				IsPreview bool    `json:"isPreview"`
			} `json:"videos"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.False(t, body.Data.HasPurchased)
	require.Len(t, body.Data.Videos, 3)
	for _, v := range body.Data.Videos {
		if v.IsPreview {
			assert.NotNil(t, v.VideoURL)
		} else {
			assert.Nil(t, v.VideoURL)
		}
	}
}

func TestPurchaserSeesAllVideoURLs(t *testing.T) {
	app := setupTest()
	course, _ := seedCourse(t)
	user, token := seedUser(t, "buyer@example.com")
	seedPurchase(t, user.ID, course.ID)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/courses/%d", course.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			HasPurchased bool `json:"hasPurchased"`
			Videos       []struct {
				VideoURL *string `json:"videoUrl"`
			} `json:"videos"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.True(t, body.Data.HasPurchased)
	for _, v := range body.Data.Videos {
		assert.NotNil(t, v.VideoURL)
	}
}

func TestListingNeverExposesVideoURLs(t *testing.T) {
	app := setupTest()
	course, _ := seedCourse(t)
	user, token := seedUser(t, "lister@example.com")
	seedPurchase(t, user.ID, course.ID)

	req := httptest.NewRequest("GET", "/api/courses/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Courses []struct {
				ID     uint `json:"ID"`
				Videos []struct {
					VideoURL  *string `json:"videoUrl"`
					IsPreview bool    `json:"isPreview"`
				} `json:"videos"`
			} `json:"courses"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	for _, listed := range body.Data.Courses {
		if listed.ID != course.ID {
			continue
		}
		for _, v := range listed.Videos {
			if !v.IsPreview {
				assert.Nil(t, v.VideoURL)
			}
		}
	}
}

func TestReviewRequiresPurchase(t *testing.T) {
	app := setupTest()
	course, _ := seedCourse(t)
	_, token := seedUser(t, "nonbuyer@example.com")

	payload, _ := json.Marshal(fiber.Map{"rating": 5, "comment": "Great"})
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/courses/%d/reviews", course.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestReviewRecomputesRating(t *testing.T) {
	app := setupTest()
	course, _ := seedCourse(t)
	user, token := seedUser(t, "reviewer@example.com")
	seedPurchase(t, user.ID, course.ID)

	payload, _ := json.Marshal(fiber.Map{"rating": 4, "comment": "Helpful"})
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/courses/%d/reviews", course.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Course
	require.NoError(t, database.Database.Db.First(&updated, course.ID).Error)
	assert.Equal(t, 1, updated.RatingCount)
	assert.Equal(t, 4.0, updated.RatingAverage)

	// a second review from the same user is rejected
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateProgressRequiresPurchase(t *testing.T) {
	app := setupTest()
	course, _ := seedCourse(t)
	_, token := seedUser(t, "lurker@example.com")

	payload, _ := json.Marshal(fiber.Map{"videoId": "1", "completed": true})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/courses/%d/progress", course.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdateProgressPercentage(t *testing.T) {
	app := setupTest()
	course, videos := seedCourse(t)
	user, token := seedUser(t, "learner@example.com")
	seedPurchase(t, user.ID, course.ID)

	markComplete := func(videoID string) *struct {
		Data struct {
			Progress int `json:"progress"`
		} `json:"data"`
	} {
		payload, _ := json.Marshal(fiber.Map{"videoId": videoID, "completed": true})
		req := httptest.NewRequest("PUT", fmt.Sprintf("/api/courses/%d/progress", course.ID), bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := new(struct {
			Data struct {
				Progress int `json:"progress"`
			} `json:"data"`
		})
		require.NoError(t, json.NewDecoder(resp.Body).Decode(body))
		return body
	}

	body := markComplete(fmt.Sprint(videos[0].ID))
	assert.Equal(t, 33, body.Data.Progress)

	body = markComplete(fmt.Sprint(videos[1].ID))
	assert.Equal(t, 67, body.Data.Progress)

	body = markComplete(fmt.Sprint(videos[2].ID))
	assert.Equal(t, 100, body.Data.Progress)

	// marking the same video twice does not double count
	body = markComplete(fmt.Sprint(videos[2].ID))
	assert.Equal(t, 100, body.Data.Progress)
}
