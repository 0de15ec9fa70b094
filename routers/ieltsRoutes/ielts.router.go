package ieltsRoutes

import (
	controllers "sab/controllers/ielts"
	"sab/middleware"
	validators "sab/validators/ielts"

	"github.com/gofiber/fiber/v2"
)

// SetupIeltsRoutes sets up the IELTS practice and scoring routes
func SetupIeltsRoutes(app *fiber.App) {
	ieltsGroup := app.Group("/api/ielts", middleware.JWTMiddleware)

	ieltsGroup.Post("/writing", validators.SubmitWriting(), controllers.SubmitWriting)
	ieltsGroup.Post("/speaking", validators.SubmitSpeaking(), controllers.SubmitSpeaking)
	ieltsGroup.Get("/results", controllers.GetResults)
	ieltsGroup.Get("/leaderboard", controllers.GetLeaderboard)
	ieltsGroup.Get("/analytics", controllers.GetAnalytics)
}
