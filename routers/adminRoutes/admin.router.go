package adminRoutes

import (
	adminControllers "sab/controllers/admin"
	courseControllers "sab/controllers/course"
	"sab/middleware"
	adminValidators "sab/validators/admin"
	courseValidators "sab/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the admin panel routes
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin", middleware.JWTMiddleware, middleware.AdminMiddleware)

	adminGroup.Get("/dashboard", adminControllers.Dashboard)

	adminGroup.Get("/users", adminControllers.GetUsers)
	adminGroup.Put("/users/:id", adminValidators.UserID(), adminControllers.UpdateUser)
	adminGroup.Delete("/users/:id", adminValidators.UserID(), adminControllers.DeleteUser)

	adminGroup.Get("/courses", adminControllers.GetCourses)
	adminGroup.Post("/courses", courseValidators.AdminCourse(), courseControllers.AdminCreateCourse)
	adminGroup.Put("/courses/:id", courseValidators.CourseID(), courseValidators.AdminCourse(), courseControllers.AdminUpdateCourse)
	adminGroup.Delete("/courses/:id", courseValidators.CourseID(), courseControllers.AdminDeleteCourse)

	adminGroup.Get("/test-results", adminControllers.GetTestResults)

	adminGroup.Get("/settings", adminControllers.GetSettings)
	adminGroup.Put("/settings", adminControllers.UpdateSettings)
}
