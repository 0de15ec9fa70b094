package adminValidator

import (
	"strconv"

	"sab/middleware"

	"github.com/gofiber/fiber/v2"
)

// UserID validates the :id route parameter and stores it as an int
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
		}
		c.Locals("targetUserID", id)
		return c.Next()
	}
}
