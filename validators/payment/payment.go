package paymentValidator

import (
	"sab/middleware"

	"github.com/gofiber/fiber/v2"
)

// StartPayment validates a payment-initiation request
func StartPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID      uint    `json:"courseId"`
			Amount        float64 `json:"amount"`
			Currency      string  `json:"currency"`
			PaymentMethod string  `json:"paymentMethod"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.PaymentMethod == "" {
			reqData.PaymentMethod = "bkash"
		}
		if reqData.PaymentMethod != "bkash" && reqData.PaymentMethod != "sslcommerz" {
			errors["paymentMethod"] = "Unsupported payment method!"
		}
		if reqData.Currency == "" {
			reqData.Currency = "BDT"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStartPayment", reqData)
		return c.Next()
	}
}

// VerifyPayment validates a payment-verification request
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TransactionID string            `json:"transactionId"`
			CourseID      uint              `json:"courseId"`
			PaymentData   map[string]string `json:"paymentData"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TransactionID == "" {
			errors["transactionId"] = "Transaction id is required!"
		}
		if reqData.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerifyPayment", reqData)
		return c.Next()
	}
}
