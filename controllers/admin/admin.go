package adminController

import (
	"log"
	"strings"
	"time"

	"sab/config"
	"sab/database"
	"sab/middleware"
	"sab/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// Dashboard aggregates the platform-wide numbers the admin landing page shows
func Dashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalCourses, totalDocuments, totalTests, totalEnrollments int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&models.Course{}).Where("is_active = ?", true).Count(&totalCourses)
	db.Model(&models.Document{}).Where("is_deleted = ?", false).Count(&totalDocuments)
	db.Model(&models.TestResult{}).Count(&totalTests)
	db.Model(&models.PurchasedCourse{}).Where("is_deleted = ?", false).Count(&totalEnrollments)

	var totalRevenue float64
	db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	var recentUsers []models.User
	db.Where("is_deleted = ?", false).Order("created_at desc").Limit(10).Find(&recentUsers)

	type popularCourse struct {
		ID              uint    `json:"id"`
		Title           string  `json:"title"`
		EnrollmentCount int     `json:"enrollmentCount"`
		RatingAverage   float64 `json:"ratingAverage"`
	}
	var popularCourses []popularCourse
	db.Model(&models.Course{}).
		Where("is_active = ?", true).
		Select("id, title, enrollment_count, rating_average").
		Order("enrollment_count desc").Limit(5).
		Scan(&popularCourses)

	// revenue and signups over the trailing six calendar months
	type monthStat struct {
		Month   string  `json:"month"`
		Revenue float64 `json:"revenue"`
		Users   int64   `json:"users"`
	}
	monthlyStats := make([]monthStat, 0, 6)
	for i := 5; i >= 0; i-- {
		ref := time.Now().AddDate(0, -i, 0)
		start := now.With(ref).BeginningOfMonth()
		end := now.With(ref).EndOfMonth()

		var revenue float64
		db.Model(&models.PaymentTransaction{}).
			Where("status = ? AND transaction_date BETWEEN ? AND ?", models.PaymentCompleted, start, end).
			Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

		var signups int64
		db.Model(&models.User{}).
			Where("created_at BETWEEN ? AND ?", start, end).Count(&signups)

		monthlyStats = append(monthlyStats, monthStat{
			Month:   start.Format("2006-01"),
			Revenue: revenue,
			Users:   signups,
		})
	}

	type sectionStat struct {
		Section      string  `json:"section"`
		AverageScore float64 `json:"averageScore"`
		TestCount    int64   `json:"testCount"`
	}
	var sectionStats []sectionStat
	db.Model(&models.TestResult{}).
		Where("status = ?", models.TestEvaluated).
		Select("section, COALESCE(AVG(overall_score), 0) AS average_score, COUNT(*) AS test_count").
		Group("section").
		Scan(&sectionStats)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard data fetched successfully!", fiber.Map{
		"overview": fiber.Map{
			"totalUsers":       totalUsers,
			"totalCourses":     totalCourses,
			"totalDocuments":   totalDocuments,
			"totalTests":       totalTests,
			"totalEnrollments": totalEnrollments,
			"totalRevenue":     totalRevenue,
		},
		"recentUsers":      recentUsers,
		"popularCourses":   popularCourses,
		"monthlyStats":     monthlyStats,
		"ieltsPerformance": sectionStats,
	})
}

// GetUsers lists users with search and filters
func GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}
	if country := c.Query("targetCountry"); country != "" {
		db = db.Where("target_country = ?", country)
	}
	if subscription := c.Query("subscriptionType"); subscription != "" {
		db = db.Where("subscription_type = ?", subscription)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalUsers":  total,
		},
	})
}

// UpdateUser changes a user's role or subscription
func UpdateUser(c *fiber.Ctx) error {
	userID, ok := c.Locals("targetUserID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Role               *string    `json:"role"`
		SubscriptionType   *string    `json:"subscriptionType"`
		SubscriptionExpiry *time.Time `json:"subscriptionExpiry"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if reqData.Role != nil {
		role := models.UserRole(*reqData.Role)
		if role != models.RoleStudent && role != models.RoleAdmin {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid role!", nil)
		}
		user.Role = role
	}
	if reqData.SubscriptionType != nil {
		sub := models.SubscriptionType(*reqData.SubscriptionType)
		if sub != models.SubscriptionFree && sub != models.SubscriptionPremium && sub != models.SubscriptionPro {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid subscription type!", nil)
		}
		user.SubscriptionType = sub
		if sub == models.SubscriptionFree {
			user.SubscriptionExpiry = nil
		}
	}
	if reqData.SubscriptionExpiry != nil {
		user.SubscriptionExpiry = reqData.SubscriptionExpiry
	}

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", fiber.Map{
		"user": user,
	})
}

// DeleteUser removes a user and everything they own. Unlike the soft
// deletes elsewhere, this is a hard removal for data erasure requests.
func DeleteUser(c *fiber.Ctx) error {
	userID, ok := c.Locals("targetUserID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	adminUser, ok := c.Locals("adminUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if adminUser.ID == uint(userID) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Admins cannot delete their own account!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	tx := db.Begin()

	var documentIDs []uint
	tx.Model(&models.Document{}).Where("user_id = ?", userID).Pluck("id", &documentIDs)

	var reviewedCourseIDs []uint
	tx.Model(&models.CourseReview{}).Where("user_id = ?", userID).Distinct().Pluck("course_id", &reviewedCourseIDs)

	deletes := []*gorm.DB{}
	if len(documentIDs) > 0 {
		deletes = append(deletes,
			tx.Unscoped().Where("document_id IN ?", documentIDs).Delete(&models.DocumentVersion{}),
			tx.Unscoped().Where("document_id IN ?", documentIDs).Delete(&models.DocumentShare{}),
			tx.Unscoped().Where("document_id IN ?", documentIDs).Delete(&models.DocumentFeedback{}),
		)
	}
	deletes = append(deletes,
		tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Document{}),
		tx.Unscoped().Where("user_id = ?", userID).Delete(&models.TestResult{}),
		tx.Unscoped().Where("user_id = ?", userID).Delete(&models.TestSummary{}),
		tx.Unscoped().Where("user_id = ?", userID).Delete(&models.PurchasedCourse{}),
		tx.Unscoped().Where("user_id = ?", userID).Delete(&models.CourseReview{}),
	)
	for _, result := range deletes {
		if result.Error != nil {
			tx.Rollback()
			log.Printf("Error deleting user %d data: %v", userID, result.Error)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
		}
	}

	// The deleted reviews fed course rating aggregates; rebuild them
	// from the reviews that remain.
	for _, courseID := range reviewedCourseIDs {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
		}
		var reviews []models.CourseReview
		if err := tx.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&reviews).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
		}
		models.RecomputeRatings(&course, reviews)
		if err := tx.Save(&course).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
		}
	}

	if err := tx.Unscoped().Delete(&user).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error deleting user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

// GetCourses lists all courses for the admin panel, inactive ones included
func GetCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ?", false)

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(title) LIKE ?", like)
	}
	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalCourses": total,
		},
	})
}

// GetTestResults lists IELTS attempts across all users with aggregates
func GetTestResults(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.TestResult{})
	if section := c.Query("section"); section != "" {
		db = db.Where("section = ?", section)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var results []models.TestResult
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch test results!", nil)
	}

	type sectionStat struct {
		Section      string  `json:"section"`
		AverageScore float64 `json:"averageScore"`
		BestScore    float64 `json:"bestScore"`
		TestCount    int64   `json:"testCount"`
	}
	var performance []sectionStat
	database.Database.Db.Model(&models.TestResult{}).
		Where("status = ?", models.TestEvaluated).
		Select("section, COALESCE(AVG(overall_score), 0) AS average_score, COALESCE(MAX(overall_score), 0) AS best_score, COUNT(*) AS test_count").
		Group("section").
		Scan(&performance)

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test results fetched successfully!", fiber.Map{
		"results":     results,
		"performance": performance,
		"pagination": fiber.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalResults": total,
		},
	})
}

// GetSettings exposes the environment-derived platform settings
func GetSettings(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully!", fiber.Map{
		"settings": fiber.Map{
			"frontendUrl":       config.AppConfig.FrontendURL,
			"backendUrl":        config.AppConfig.BackendURL,
			"uploadDir":         config.AppConfig.UploadDir,
			"aiEnabled":         config.AppConfig.GeminiApiKey != "",
			"bkashEnabled":      config.AppConfig.BkashAppKey != "",
			"sslcommerzEnabled": config.AppConfig.SSLCommerzStoreID != "",
			"emailEnabled":      config.AppConfig.EmailSender != "",
		},
	})
}

// UpdateSettings acknowledges the request. Settings live in the
// environment, so changes require a redeploy.
func UpdateSettings(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings are environment-managed; update the deployment configuration to change them.", nil)
}
