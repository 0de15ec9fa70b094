package courseController

import (
	"encoding/json"
	"log"
	"time"

	"sab/database"
	"sab/middleware"
	"sab/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// videoView is the client-facing shape of a course video. VideoURL is a
// pointer so gated videos serialize it as null instead of an empty string.
type videoView struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	VideoURL    *string `json:"videoUrl"`
	Duration    int     `json:"duration"`
	OrderIndex  int     `json:"orderIndex"`
	IsPreview   bool    `json:"isPreview"`
}

// sanitizeVideos hides video URLs the viewer has not paid for. Preview
// videos stay visible to everyone.
func sanitizeVideos(videos []models.CourseVideo, hasPurchased bool) []videoView {
	views := make([]videoView, len(videos))
	for i, v := range videos {
		views[i] = videoView{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			Duration:    v.Duration,
			OrderIndex:  v.OrderIndex,
			IsPreview:   v.IsPreview,
		}
		if hasPurchased || v.IsPreview {
			url := v.VideoURL
			views[i].VideoURL = &url
		}
	}
	return views
}

// userHasPurchased reports whether the user owns an active purchase of the course
func userHasPurchased(userID uint, courseID uint) bool {
	if userID == 0 {
		return false
	}
	var purchase models.PurchasedCourse
	return database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&purchase).Error == nil
}

// GetAllCourses lists active courses with filtering and pagination.
// Video URLs are never included in the listing.
func GetAllCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 12)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).
		Where("is_active = ? AND is_deleted = ?", true, false)

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}
	if level := c.Query("level"); level != "" {
		db = db.Where("level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		db = db.Where("title LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	courseIDs := make([]uint, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
	}

	var videos []models.CourseVideo
	if len(courseIDs) > 0 {
		database.Database.Db.Where("course_id IN ?", courseIDs).Order("order_index asc").Find(&videos)
	}

	type courseView struct {
		models.Course
		Videos []videoView `json:"videos"`
	}

	result := make([]courseView, len(courses))
	for i, course := range courses {
		var own []models.CourseVideo
		for _, v := range videos {
			if v.CourseID == course.ID {
				own = append(own, v)
			}
		}
		result[i] = courseView{Course: course, Videos: sanitizeVideos(own, false)}
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": result,
		"pagination": fiber.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalCourses": total,
		},
	})
}

// GetCourseDetails returns a single course. Purchasers see every video
// URL; everyone else only the preview ones.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Optional auth: an anonymous or invalid token degrades to preview-only
	userID, _ := c.Locals("userId").(uint)
	hasPurchased := userHasPurchased(userID, course.ID)

	var videos []models.CourseVideo
	database.Database.Db.Where("course_id = ?", course.ID).Order("order_index asc").Find(&videos)

	var reviews []models.CourseReview
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("date desc").Find(&reviews)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":       course,
		"videos":       sanitizeVideos(videos, hasPurchased),
		"reviews":      reviews,
		"hasPurchased": hasPurchased,
	})
}

// GetPurchasedCourses lists the requesting user's purchases with progress
func GetPurchasedCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var purchases []models.PurchasedCourse
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Preload("Course").
		Order("purchase_date desc").
		Find(&purchases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchased courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchased courses fetched successfully!", fiber.Map{
		"purchasedCourses": purchases,
	})
}

// UpdateProgress marks a video complete or incomplete and recomputes the
// purchase's progress percentage.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedProgress").(*struct {
		VideoID   string `json:"videoId"`
		Completed bool   `json:"completed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var purchase models.PurchasedCourse
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course not purchased!", nil)
	}

	var totalVideos int64
	db.Model(&models.CourseVideo{}).Where("course_id = ?", courseID).Count(&totalVideos)
	if totalVideos == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course has no videos!", nil)
	}

	var completed []string
	if len(purchase.CompletedVideos) > 0 {
		if err := json.Unmarshal(purchase.CompletedVideos, &completed); err != nil {
			log.Printf("Error parsing completed videos for purchase %d: %v", purchase.ID, err)
			completed = nil
		}
	}

	if reqData.Completed {
		found := false
		for _, id := range completed {
			if id == reqData.VideoID {
				found = true
				break
			}
		}
		if !found {
			completed = append(completed, reqData.VideoID)
		}
	} else {
		kept := completed[:0]
		for _, id := range completed {
			if id != reqData.VideoID {
				kept = append(kept, id)
			}
		}
		completed = kept
	}

	raw, _ := json.Marshal(completed)
	purchase.CompletedVideos = datatypes.JSON(raw)
	purchase.Progress = models.ProgressPercent(len(completed), int(totalVideos))

	if err := db.Save(&purchase).Error; err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"progress":        purchase.Progress,
		"completedVideos": completed,
	})
}

// AddReview lets a purchaser leave one review, recomputing the aggregate
func AddReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData := new(struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Rating < 1 || reqData.Rating > 5 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
	}

	db := database.Database.Db

	if !userHasPurchased(userID, uint(courseID)) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must purchase the course to leave a review!", nil)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existingReview models.CourseReview
	if err := db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", courseID, userID, false).First(&existingReview).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You have already reviewed this course!", nil)
	}

	review := models.CourseReview{
		CourseID: course.ID,
		UserID:   userID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
		Date:     time.Now(),
	}

	tx := db.Begin()
	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	var reviews []models.CourseReview
	tx.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&reviews)

	models.RecomputeRatings(&course, reviews)
	if err := tx.Save(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course rating!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review added successfully!", fiber.Map{
		"review":        review,
		"ratingAverage": course.RatingAverage,
		"ratingCount":   course.RatingCount,
	})
}
