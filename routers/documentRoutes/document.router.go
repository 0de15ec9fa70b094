package documentRoutes

import (
	controllers "sab/controllers/document"
	"sab/middleware"
	validators "sab/validators/document"

	"github.com/gofiber/fiber/v2"
)

// SetupDocumentRoutes sets up the AI document workspace routes
func SetupDocumentRoutes(app *fiber.App) {
	docGroup := app.Group("/api/documents", middleware.JWTMiddleware)

	docGroup.Post("/generate", validators.Generate(), controllers.GenerateDocument)
	docGroup.Get("/templates", controllers.GetTemplates)
	docGroup.Get("/", controllers.GetMyDocuments)
	docGroup.Post("/", validators.Save(), controllers.SaveDocument)
	docGroup.Get("/:id", controllers.GetDocument)
	docGroup.Delete("/:id", controllers.DeleteDocument)
	docGroup.Post("/:id/share", controllers.ShareDocument)
}
