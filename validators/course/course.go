package courseValidator

import (
	"strconv"
	"strings"

	"sab/middleware"

	"github.com/gofiber/fiber/v2"
)

// CourseID validates the :id route parameter and stores it as an int
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// Progress validates a progress-update request body
func Progress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			VideoID   string `json:"videoId"`
			Completed bool   `json:"completed"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.VideoID) == "" {
			errors["videoId"] = "Video id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// AdminCourse validates an admin create/update course payload
func AdminCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string  `json:"title"`
			Description    string  `json:"description"`
			Thumbnail      string  `json:"thumbnail"`
			Category       string  `json:"category"`
			Level          string  `json:"level"`
			PriceAmount    float64 `json:"priceAmount"`
			Currency       string  `json:"currency"`
			DiscountPrice  float64 `json:"discountPrice"`
			InstructorName string  `json:"instructorName"`
			InstructorBio  string  `json:"instructorBio"`
			Videos         []struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				VideoURL    string `json:"videoUrl"`
				Duration    int    `json:"duration"`
				OrderIndex  int    `json:"orderIndex"`
				IsPreview   bool   `json:"isPreview"`
			} `json:"videos"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		validCategories := map[string]bool{
			"visa-interview": true, "sop-writing": true, "scholarship": true,
			"ielts-prep": true, "university-application": true, "general": true,
		}
		if !validCategories[reqData.Category] {
			errors["category"] = "Invalid category!"
		}

		if reqData.Level != "" && reqData.Level != "beginner" && reqData.Level != "intermediate" && reqData.Level != "advanced" {
			errors["level"] = "Level must be beginner, intermediate or advanced!"
		}

		if reqData.PriceAmount < 0 {
			errors["priceAmount"] = "Price cannot be negative!"
		}

		for i, v := range reqData.Videos {
			if strings.TrimSpace(v.Title) == "" || strings.TrimSpace(v.VideoURL) == "" || v.Duration <= 0 {
				errors["videos"] = "Video " + strconv.Itoa(i+1) + " needs a title, a URL and a positive duration!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}
