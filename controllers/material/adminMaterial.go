package materialController

import (
	"encoding/json"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"sab/config"
	"sab/database"
	"sab/middleware"
	"sab/models"
	"sab/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminUploadMaterial creates a material from a multipart form, storing
// the optional file under the uploads directory.
func AdminUploadMaterial(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	material := models.Material{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: c.FormValue("description"),
		Type:        c.FormValue("type"),
		Category:    c.FormValue("category"),
		Difficulty:  c.FormValue("difficulty"),
		Content:     c.FormValue("content"),
		IsPremium:   c.FormValue("isPremium") == "true",
		UploadedBy:  admin.ID,
	}
	if material.Difficulty == "" {
		material.Difficulty = "beginner"
	}

	if tags := c.FormValue("tags"); tags != "" {
		parts := strings.Split(tags, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		raw, _ := json.Marshal(parts)
		material.Tags = datatypes.JSON(raw)
	}
	if duration := c.FormValue("duration"); duration != "" {
		if d, err := strconv.Atoi(duration); err == nil {
			material.Duration = d
		}
	}
	if wordCount := c.FormValue("wordCount"); wordCount != "" {
		if w, err := strconv.Atoi(wordCount); err == nil {
			material.WordCount = w
		}
	}

	if file, err := c.FormFile("file"); err == nil {
		destDir := filepath.Join(config.AppConfig.UploadDir, "materials")
		filename, err := utils.SaveUploadedFile(file, destDir)
		if err != nil {
			log.Printf("Error saving uploaded file: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store uploaded file!", nil)
		}
		material.FileURL = utils.GetFileURL(filename)
		material.DownloadURL = material.FileURL
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		log.Printf("Error creating material: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material uploaded successfully!", material)
}

// AdminUpdateMaterial updates mutable material fields
func AdminUpdateMaterial(c *fiber.Ctx) error {
	db := database.Database.Db

	var material models.Material
	if err := db.Where("id = ? AND is_deleted = ?", c.Params("id"), false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	reqData := new(struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Difficulty  *string `json:"difficulty"`
		Content     *string `json:"content"`
		IsPublic    *bool   `json:"isPublic"`
		IsPremium   *bool   `json:"isPremium"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil && strings.TrimSpace(*reqData.Title) != "" {
		material.Title = strings.TrimSpace(*reqData.Title)
	}
	if reqData.Description != nil {
		material.Description = *reqData.Description
	}
	if reqData.Difficulty != nil {
		material.Difficulty = *reqData.Difficulty
	}
	if reqData.Content != nil {
		material.Content = *reqData.Content
	}
	if reqData.IsPublic != nil {
		material.IsPublic = *reqData.IsPublic
	}
	if reqData.IsPremium != nil {
		material.IsPremium = *reqData.IsPremium
	}

	if err := db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material updated successfully!", material)
}

// AdminDeleteMaterial hides a material from the public catalogue
func AdminDeleteMaterial(c *fiber.Ctx) error {
	db := database.Database.Db

	var material models.Material
	if err := db.Where("id = ? AND is_deleted = ?", c.Params("id"), false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	material.IsDeleted = true
	if err := db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material deleted successfully!", nil)
}

// AdminMaterialStats aggregates view/download counters per category and type
func AdminMaterialStats(c *fiber.Ctx) error {
	db := database.Database.Db

	type overview struct {
		TotalMaterials int64 `json:"totalMaterials"`
		TotalViews     int64 `json:"totalViews"`
		TotalDownloads int64 `json:"totalDownloads"`
	}
	var totals overview

	db.Model(&models.Material{}).Where("is_deleted = ?", false).Count(&totals.TotalMaterials)
	db.Model(&models.Material{}).Where("is_deleted = ?", false).
		Select("COALESCE(SUM(view_count), 0)").Scan(&totals.TotalViews)
	db.Model(&models.Material{}).Where("is_deleted = ?", false).
		Select("COALESCE(SUM(download_count), 0)").Scan(&totals.TotalDownloads)

	type bucketStat struct {
		Bucket         string `json:"bucket" gorm:"column:bucket"`
		Count          int64  `json:"count"`
		TotalViews     int64  `json:"totalViews"`
		TotalDownloads int64  `json:"totalDownloads"`
	}

	var categoryStats []bucketStat
	db.Model(&models.Material{}).Where("is_deleted = ?", false).
		Select("category AS bucket, COUNT(*) AS count, SUM(view_count) AS total_views, SUM(download_count) AS total_downloads").
		Group("category").
		Scan(&categoryStats)

	var typeStats []bucketStat
	db.Model(&models.Material{}).Where("is_deleted = ?", false).
		Select("type AS bucket, COUNT(*) AS count, SUM(view_count) AS total_views, SUM(download_count) AS total_downloads").
		Group("type").
		Scan(&typeStats)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material statistics fetched!", fiber.Map{
		"overview":          totals,
		"categoryBreakdown": categoryStats,
		"typeBreakdown":     typeStats,
	})
}
