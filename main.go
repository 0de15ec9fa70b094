package main

import (
	"log"

	"sab/config"
	"sab/database"
	"sab/middleware"
	adminRoutes "sab/routers/adminRoutes"
	authRoutes "sab/routers/authRoutes"
	courseRoutes "sab/routers/courseRoutes"
	documentRoutes "sab/routers/documentRoutes"
	ieltsRoutes "sab/routers/ieltsRoutes"
	materialRoutes "sab/routers/materialRoutes"
	paymentRoutes "sab/routers/paymentRoutes"
	"sab/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: utils.MaxUploadSize,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.FrontendURL,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded material files
	app.Static("/uploads", config.AppConfig.UploadDir)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{
			"status": "healthy",
		})
	})

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	documentRoutes.SetupDocumentRoutes(app)
	materialRoutes.SetupMaterialRoutes(app)
	ieltsRoutes.SetupIeltsRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found!", nil)
	})

	utils.InitializeSubscriptionScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
