package paymentRoutes

import (
	controllers "sab/controllers/payment"
	"sab/middleware"
	validators "sab/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up checkout and gateway-callback routes. The
// sslcommerz-* endpoints are hit by the gateway itself, not the frontend.
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/api/payment")

	paymentGroup.Post("/start", middleware.JWTMiddleware, validators.StartPayment(), controllers.StartPayment)
	paymentGroup.Post("/verify", middleware.JWTMiddleware, validators.VerifyPayment(), controllers.VerifyPayment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, controllers.GetPaymentHistory)

	paymentGroup.Post("/sslcommerz-success", controllers.SSLCommerzSuccess)
	paymentGroup.Post("/sslcommerz-fail", controllers.SSLCommerzFail)
	paymentGroup.Post("/sslcommerz-cancel", controllers.SSLCommerzCancel)
}
