package materialController

import (
	"sab/database"
	"sab/middleware"
	"sab/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// materialView hides premium file URLs from viewers without a paid tier
type materialView struct {
	models.Material
	FileURL     string `json:"fileUrl,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	PreviewOnly bool   `json:"previewOnly,omitempty"`
}

func sanitizeMaterial(m models.Material, hasPremium bool) materialView {
	view := materialView{Material: m, FileURL: m.FileURL, DownloadURL: m.DownloadURL}
	if m.IsPremium && !hasPremium {
		view.FileURL = ""
		view.DownloadURL = ""
		view.PreviewOnly = true
	}
	return view
}

// viewerHasPremium resolves the optional identity to a subscription check
func viewerHasPremium(c *fiber.Ctx) bool {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return false
	}
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return false
	}
	return user.HasPremiumAccess()
}

// GetMaterials lists public materials with filtering, search and sorting.
// Premium entries lose their URLs for free or anonymous viewers.
func GetMaterials(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 12)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Material{}).
		Where("is_public = ? AND is_deleted = ?", true, false)

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}
	if materialType := c.Query("type"); materialType != "" {
		db = db.Where("type = ?", materialType)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		db = db.Where("difficulty = ?", difficulty)
	}
	if isPremium := c.Query("isPremium"); isPremium != "" {
		db = db.Where("is_premium = ?", isPremium == "true")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		db = db.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
	}

	sortBy := c.Query("sortBy", "created_at")
	switch sortBy {
	case "created_at", "view_count", "download_count", "rating_average", "title":
	default:
		sortBy = "created_at"
	}
	sortOrder := "desc"
	if c.Query("sortOrder") == "asc" {
		sortOrder = "asc"
	}

	var total int64
	db.Count(&total)

	var materials []models.Material
	if err := db.Offset(offset).Limit(limit).Order(sortBy + " " + sortOrder).Find(&materials).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch materials!", nil)
	}

	hasPremium := viewerHasPremium(c)

	result := make([]materialView, len(materials))
	for i, m := range materials {
		result[i] = sanitizeMaterial(m, hasPremium)
	}

	var categories, types, difficulties []string
	database.Database.Db.Model(&models.Material{}).Where("is_public = ? AND is_deleted = ?", true, false).Distinct().Pluck("category", &categories)
	database.Database.Db.Model(&models.Material{}).Where("is_public = ? AND is_deleted = ?", true, false).Distinct().Pluck("type", &types)
	database.Database.Db.Model(&models.Material{}).Where("is_public = ? AND is_deleted = ?", true, false).Distinct().Pluck("difficulty", &difficulties)

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Materials fetched successfully!", fiber.Map{
		"materials": result,
		"pagination": fiber.Map{
			"currentPage":    page,
			"totalPages":     totalPages,
			"totalMaterials": total,
		},
		"filters": fiber.Map{
			"categories":   categories,
			"types":        types,
			"difficulties": difficulties,
		},
	})
}

// GetMaterial returns one material, bumping its view counter
func GetMaterial(c *fiber.Ctx) error {
	db := database.Database.Db

	var material models.Material
	if err := db.Where("id = ? AND is_deleted = ?", c.Params("id"), false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	hasPremium := viewerHasPremium(c)
	hasAccess := !material.IsPremium || hasPremium

	db.Model(&material).Update("view_count", gorm.Expr("view_count + 1"))
	material.ViewCount++

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material fetched successfully!", fiber.Map{
		"material":  sanitizeMaterial(material, hasPremium),
		"hasAccess": hasAccess,
	})
}

// DownloadMaterial returns the download URL of a material the user may access
func DownloadMaterial(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var material models.Material
	if err := db.Where("id = ? AND is_deleted = ?", c.Params("id"), false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	if material.IsPremium && !user.HasPremiumAccess() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Premium subscription required!", nil)
	}

	db.Model(&material).Update("download_count", gorm.Expr("download_count + 1"))
	material.DownloadCount++

	downloadURL := material.DownloadURL
	if downloadURL == "" {
		downloadURL = material.FileURL
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Download ready!", fiber.Map{
		"downloadUrl": downloadURL,
		"filename":    material.Title,
	})
}

// RateMaterial folds one rating into the running average
func RateMaterial(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Rating int `json:"rating"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Rating < 1 || reqData.Rating > 5 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
	}

	db := database.Database.Db

	var material models.Material
	if err := db.Where("id = ? AND is_deleted = ?", c.Params("id"), false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	models.FoldRating(&material, reqData.Rating)
	if err := db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit rating!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating submitted successfully!", fiber.Map{
		"averageRating": material.RatingAverage,
		"totalRatings":  material.RatingCount,
	})
}
