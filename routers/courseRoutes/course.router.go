package courseRoutes

import (
	controllers "sab/controllers/course"
	"sab/middleware"
	validators "sab/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes. Listing and
// details work without a token; a valid token unlocks purchased content.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	courseGroup.Get("/", middleware.OptionalJWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/purchased", middleware.JWTMiddleware, controllers.GetPurchasedCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Put("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), validators.Progress(), controllers.UpdateProgress)
	courseGroup.Post("/:id/reviews", middleware.JWTMiddleware, validators.CourseID(), controllers.AddReview)
}
