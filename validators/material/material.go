package materialValidator

import (
	"strings"

	"sab/middleware"
	"sab/utils"

	"github.com/gofiber/fiber/v2"
)

var validMaterialTypes = map[string]bool{
	"video": true, "pdf": true, "article": true, "vocabulary": true,
	"grammar": true, "practice-test": true, "audio": true,
}

var validCategories = map[string]bool{
	"listening": true, "reading": true, "writing": true,
	"speaking": true, "vocabulary": true, "grammar": true, "general": true,
}

// AdminUpload validates the multipart upload form for a new material
func AdminUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		if strings.TrimSpace(c.FormValue("title")) == "" {
			errors["title"] = "Title is required!"
		}
		if !validMaterialTypes[c.FormValue("type")] {
			errors["type"] = "Invalid material type!"
		}
		if !validCategories[c.FormValue("category")] {
			errors["category"] = "Invalid category!"
		}

		// File is optional (articles are text-only) but must pass the
		// allow-list and size cap when present.
		if file, err := c.FormFile("file"); err == nil {
			if err := utils.IsAllowedUpload(file); err != nil {
				errors["file"] = err.Error()
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
