package authRoutes

import (
	authControllers "sab/controllers/auth"
	"sab/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/signup", authControllers.Signup)
	authGroup.Post("/login", authControllers.Login)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	authGroup.Put("/profile", middleware.JWTMiddleware, authControllers.UpdateProfile)
}
