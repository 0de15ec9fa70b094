package documentController

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"sab/database"
	"sab/middleware"
	"sab/models"
	"sab/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// buildPrompt assembles the generation prompt for a document type from
// the structured form fields.
func buildPrompt(docType string, formData map[string]string, customPrompt string) (string, error) {
	switch docType {
	case "sop":
		return fmt.Sprintf(`Generate a Statement of Purpose for a student applying to study abroad.

Student Information:
- Name: %s
- Target University: %s
- Program: %s
- Target Country: %s
- Academic Background: %s
- Work Experience: %s
- Career Goals: %s
- Why this program: %s
- Why this university: %s

Additional Information: %s

Create a professional, compelling Statement of Purpose that:
1. Has a strong opening hook
2. Clearly outlines academic background and achievements
3. Explains motivation for choosing the specific program and university
4. Demonstrates career goals and how the program aligns with them
5. Shows personality and unique perspective
6. Has proper structure and flow
7. Is approximately 800-1000 words

Make it personal, authentic, and persuasive.`,
			formData["name"], formData["university"], formData["program"], formData["country"],
			formData["academicBackground"], formData["workExperience"], formData["careerGoals"],
			formData["whyProgram"], formData["whyUniversity"], formData["additionalInfo"]), nil

	case "resume":
		return fmt.Sprintf(`Create a professional resume for a student applying for study abroad programs.

Personal Information:
- Name: %s
- Email: %s
- Phone: %s
- Address: %s

Education: %s
Work Experience: %s
Skills: %s
Achievements: %s
Certifications: %s
Languages: %s

Create a well-structured, ATS-friendly resume suitable for international applications.`,
			formData["name"], formData["email"], formData["phone"], formData["address"],
			formData["education"], formData["workExperience"], formData["skills"],
			formData["achievements"], formData["certifications"], formData["languages"]), nil

	case "cover-letter":
		return fmt.Sprintf(`Generate a cover letter for a student application.

Details:
- Applicant Name: %s
- Position/Program: %s
- Institution: %s
- Key Qualifications: %s
- Motivation: %s

Create a professional, engaging cover letter.`,
			formData["name"], formData["position"], formData["institution"],
			formData["qualifications"], formData["motivation"]), nil

	default:
		if strings.TrimSpace(customPrompt) != "" {
			return customPrompt, nil
		}
		return "", fmt.Errorf("no prompt template for type %s", docType)
	}
}

// GenerateDocument builds a prompt from the form fields, calls the AI
// text API and persists the result as a draft document.
func GenerateDocument(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedGenerate").(*struct {
		Type         string            `json:"type"`
		FormData     map[string]string `json:"formData"`
		CustomPrompt string            `json:"customPrompt"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	prompt, err := buildPrompt(reqData.Type, reqData.FormData, reqData.CustomPrompt)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document type or missing prompt!", nil)
	}

	content, err := utils.GenerateText(prompt)
	if err != nil {
		log.Printf("Document generation error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error generating document!", nil)
	}

	formJSON, _ := json.Marshal(reqData.FormData)

	document := models.Document{
		UserID:           userID,
		Type:             models.DocumentType(reqData.Type),
		Title:            strings.ToUpper(reqData.Type) + " - " + time.Now().Format("01/02/2006"),
		Content:          content,
		FormData:         datatypes.JSON(formJSON),
		IsAiGenerated:    true,
		AiPrompt:         prompt,
		TargetUniversity: reqData.FormData["university"],
		TargetProgram:    reqData.FormData["program"],
		TargetCountry:    reqData.FormData["country"],
		Status:           models.DocumentDraft,
	}

	if err := database.Database.Db.Create(&document).Error; err != nil {
		log.Printf("Error saving generated document: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document generated successfully!", fiber.Map{
		"id":        document.ID,
		"type":      document.Type,
		"title":     document.Title,
		"content":   content,
		"createdAt": document.CreatedAt,
	})
}

// GetTemplates returns the static document template catalogue
func GetTemplates(c *fiber.Ctx) error {
	templates := fiber.Map{
		"sop": []fiber.Map{
			{"id": "sop-template-1", "name": "Academic Focus Template", "description": "Emphasizes academic achievements and research interests"},
			{"id": "sop-template-2", "name": "Professional Experience Template", "description": "Highlights work experience and career goals"},
			{"id": "sop-template-3", "name": "Personal Journey Template", "description": "Focuses on personal growth and unique experiences"},
		},
		"resume": []fiber.Map{
			{"id": "resume-template-1", "name": "Modern Professional", "description": "Clean, modern design suitable for most fields"},
			{"id": "resume-template-2", "name": "Academic CV", "description": "Detailed format for academic positions"},
			{"id": "resume-template-3", "name": "Creative Design", "description": "Visual appeal for creative fields"},
		},
		"cover-letter": []fiber.Map{
			{"id": "cover-letter-template-1", "name": "Standard Business", "description": "Professional business format"},
			{"id": "cover-letter-template-2", "name": "Academic Application", "description": "Tailored for academic programs"},
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Templates fetched successfully!", fiber.Map{
		"templates": templates,
	})
}

// GetMyDocuments lists the user's documents without their content
func GetMyDocuments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Document{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)

	if docType := c.Query("type"); docType != "" {
		db = db.Where("type = ?", docType)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var documents []models.Document
	if err := db.Omit("content", "ai_prompt").Offset(offset).Limit(limit).Order("updated_at desc").Find(&documents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch documents!", nil)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Documents fetched successfully!", fiber.Map{
		"documents": documents,
		"pagination": fiber.Map{
			"currentPage":    page,
			"totalPages":     totalPages,
			"totalDocuments": total,
		},
	})
}

// GetDocument returns one of the user's documents with its version history
func GetDocument(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var document models.Document
	if err := database.Database.Db.
		Where("id = ? AND user_id = ? AND is_deleted = ?", c.Params("id"), userID, false).
		First(&document).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
	}

	var versions []models.DocumentVersion
	database.Database.Db.Where("document_id = ?", document.ID).Order("version desc").Find(&versions)

	var shares []models.DocumentShare
	database.Database.Db.Where("document_id = ?", document.ID).Find(&shares)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document fetched successfully!", fiber.Map{
		"document":         document,
		"previousVersions": versions,
		"sharedWith":       shares,
	})
}

// SaveDocument creates a document, or updates one by id. Updates snapshot
// the prior content and bump the version by exactly one.
func SaveDocument(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSave").(*struct {
		ID      uint   `json:"id"`
		Type    string `json:"type"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Status  string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if reqData.ID == 0 {
		document := models.Document{
			UserID:  userID,
			Type:    models.DocumentType(reqData.Type),
			Title:   reqData.Title,
			Content: reqData.Content,
			Status:  models.DocumentDraft,
		}
		if reqData.Status != "" {
			document.Status = models.DocumentStatus(reqData.Status)
		}

		if err := db.Create(&document).Error; err != nil {
			log.Printf("Error creating document: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save document!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Document saved successfully!", document)
	}

	var document models.Document
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", reqData.ID, userID, false).First(&document).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
	}

	snapshot := models.DocumentVersion{
		DocumentID: document.ID,
		Content:    document.Content,
		Version:    document.Version,
	}

	document.Title = reqData.Title
	document.Content = reqData.Content
	document.Version++
	if reqData.Status != "" {
		document.Status = models.DocumentStatus(reqData.Status)
	}

	tx := db.Begin()
	if err := tx.Create(&snapshot).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save document!", nil)
	}
	if err := tx.Save(&document).Error; err != nil {
		tx.Rollback()
		log.Printf("Error updating document: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save document!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document updated successfully!", document)
}

// DeleteDocument removes one of the user's documents
func DeleteDocument(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var document models.Document
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", c.Params("id"), userID, false).First(&document).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
	}

	document.IsDeleted = true
	if err := db.Save(&document).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document deleted successfully!", nil)
}

// ShareDocument appends an email+role entry. No notification is sent.
func ShareDocument(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if !strings.Contains(reqData.Email, "@") {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid email is required!", nil)
	}
	if reqData.Role == "" {
		reqData.Role = "reviewer"
	}
	if reqData.Role != "reviewer" && reqData.Role != "collaborator" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Role must be reviewer or collaborator!", nil)
	}

	db := database.Database.Db

	var document models.Document
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", c.Params("id"), userID, false).First(&document).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
	}

	share := models.DocumentShare{
		DocumentID: document.ID,
		Email:      reqData.Email,
		Role:       reqData.Role,
		SharedAt:   time.Now(),
	}

	if err := db.Create(&share).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to share document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document shared successfully!", share)
}
