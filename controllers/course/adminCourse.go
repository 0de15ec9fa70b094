package courseController

import (
	"log"

	"sab/database"
	"sab/middleware"
	"sab/models"

	"github.com/gofiber/fiber/v2"
)

type adminCourseRequest = struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Thumbnail      string  `json:"thumbnail"`
	Category       string  `json:"category"`
	Level          string  `json:"level"`
	PriceAmount    float64 `json:"priceAmount"`
	Currency       string  `json:"currency"`
	DiscountPrice  float64 `json:"discountPrice"`
	InstructorName string  `json:"instructorName"`
	InstructorBio  string  `json:"instructorBio"`
	Videos         []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"videoUrl"`
		Duration    int    `json:"duration"`
		OrderIndex  int    `json:"orderIndex"`
		IsPreview   bool   `json:"isPreview"`
	} `json:"videos"`
}

// AdminCreateCourse creates a course with its video list
func AdminCreateCourse(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	reqData, ok := c.Locals("validatedCourse").(*adminCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		Title:          reqData.Title,
		Description:    reqData.Description,
		Thumbnail:      reqData.Thumbnail,
		Category:       reqData.Category,
		Level:          reqData.Level,
		PriceAmount:    reqData.PriceAmount,
		Currency:       reqData.Currency,
		DiscountPrice:  reqData.DiscountPrice,
		InstructorName: reqData.InstructorName,
		InstructorBio:  reqData.InstructorBio,
		CreatedBy:      admin.ID,
	}
	if course.Level == "" {
		course.Level = "beginner"
	}
	if course.Currency == "" {
		course.Currency = "BDT"
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&course).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	videos := make([]models.CourseVideo, len(reqData.Videos))
	for i, v := range reqData.Videos {
		videos[i] = models.CourseVideo{
			CourseID:    course.ID,
			Title:       v.Title,
			Description: v.Description,
			VideoURL:    v.VideoURL,
			Duration:    v.Duration,
			OrderIndex:  v.OrderIndex,
			IsPreview:   v.IsPreview,
		}
	}
	if len(videos) > 0 {
		if err := tx.Create(&videos).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course videos!", nil)
		}
	}

	models.RecomputeDuration(&course, videos)
	if err := tx.Save(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", fiber.Map{
		"course": course,
		"videos": videos,
	})
}

// AdminUpdateCourse updates a course; a provided video list replaces the
// old one and the total duration is recomputed.
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourse").(*adminCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Thumbnail = reqData.Thumbnail
	course.Category = reqData.Category
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	course.PriceAmount = reqData.PriceAmount
	if reqData.Currency != "" {
		course.Currency = reqData.Currency
	}
	course.DiscountPrice = reqData.DiscountPrice
	course.InstructorName = reqData.InstructorName
	course.InstructorBio = reqData.InstructorBio

	tx := db.Begin()

	videos := make([]models.CourseVideo, len(reqData.Videos))
	if reqData.Videos != nil {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseVideo{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course videos!", nil)
		}
		for i, v := range reqData.Videos {
			videos[i] = models.CourseVideo{
				CourseID:    course.ID,
				Title:       v.Title,
				Description: v.Description,
				VideoURL:    v.VideoURL,
				Duration:    v.Duration,
				OrderIndex:  v.OrderIndex,
				IsPreview:   v.IsPreview,
			}
		}
		if len(videos) > 0 {
			if err := tx.Create(&videos).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course videos!", nil)
			}
		}
		models.RecomputeDuration(&course, videos)
	}

	if err := tx.Save(&course).Error; err != nil {
		tx.Rollback()
		log.Printf("Error updating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", fiber.Map{
		"course": course,
		"videos": videos,
	})
}

// AdminDeleteCourse deactivates a course instead of removing the row
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsActive = false
	if err := db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deactivate course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deactivated successfully!", nil)
}
