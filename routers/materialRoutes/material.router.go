package materialRoutes

import (
	controllers "sab/controllers/material"
	"sab/middleware"
	validators "sab/validators/material"

	"github.com/gofiber/fiber/v2"
)

// SetupMaterialRoutes sets up the study-material library routes. Browsing
// is public; downloading requires a token, premium items a subscription.
func SetupMaterialRoutes(app *fiber.App) {
	materialGroup := app.Group("/api/materials")

	materialGroup.Get("/", middleware.OptionalJWTMiddleware, controllers.GetMaterials)
	materialGroup.Get("/:id", middleware.OptionalJWTMiddleware, controllers.GetMaterial)
	materialGroup.Post("/:id/download", middleware.JWTMiddleware, controllers.DownloadMaterial)
	materialGroup.Post("/:id/rate", middleware.JWTMiddleware, controllers.RateMaterial)

	adminGroup := app.Group("/api/admin/materials", middleware.JWTMiddleware, middleware.AdminMiddleware)

	adminGroup.Get("/stats", controllers.AdminMaterialStats)
	adminGroup.Post("/", validators.AdminUpload(), controllers.AdminUploadMaterial)
	adminGroup.Put("/:id", controllers.AdminUpdateMaterial)
	adminGroup.Delete("/:id", controllers.AdminDeleteMaterial)
}
