package documentValidator

import (
	"strings"

	"sab/middleware"

	"github.com/gofiber/fiber/v2"
)

var validTypes = map[string]bool{
	"sop": true, "lor": true, "resume": true,
	"cover-letter": true, "bank-solvency": true, "scholarship-essay": true,
}

// Generate validates a document-generation request
func Generate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Type         string            `json:"type"`
			FormData     map[string]string `json:"formData"`
			CustomPrompt string            `json:"customPrompt"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if !validTypes[reqData.Type] && strings.TrimSpace(reqData.CustomPrompt) == "" {
			errors["type"] = "Invalid document type or missing custom prompt!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerate", reqData)
		return c.Next()
	}
}

// Save validates a create-or-update save request
func Save() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ID      uint   `json:"id"`
			Type    string `json:"type"`
			Title   string `json:"title"`
			Content string `json:"content"`
			Status  string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Content is required!"
		}
		if reqData.ID == 0 && !validTypes[reqData.Type] {
			errors["type"] = "Invalid document type!"
		}
		if reqData.Status != "" && reqData.Status != "draft" && reqData.Status != "completed" && reqData.Status != "reviewed" {
			errors["status"] = "Status must be draft, completed or reviewed!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSave", reqData)
		return c.Next()
	}
}
