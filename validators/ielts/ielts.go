package ieltsValidator

import (
	"strings"

	"sab/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmitWriting validates a writing-test submission. Word count is a
// client-side concern only; any non-empty text is accepted here.
func SubmitWriting() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Task        string `json:"task"`
			TaskType    string `json:"taskType"`
			WritingText string `json:"writingText"`
			TimeSpent   int    `json:"timeSpent"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Task) == "" {
			errors["task"] = "Task is required!"
		}
		if strings.TrimSpace(reqData.WritingText) == "" {
			errors["writingText"] = "Writing text is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWriting", reqData)
		return c.Next()
	}
}

// SubmitSpeaking validates a speaking-test submission
func SubmitSpeaking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Questions []string `json:"questions"`
			Responses []string `json:"responses"`
			TimeSpent int      `json:"timeSpent"`
			AudioURL  string   `json:"audioUrl"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}
		if len(reqData.Responses) != len(reqData.Questions) {
			errors["responses"] = "Each question needs a response!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSpeaking", reqData)
		return c.Next()
	}
}
