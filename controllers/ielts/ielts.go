package ieltsController

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

func toJSON(v interface{}) datatypes.JSON {
	raw, _ := json.Marshal(v)
	return datatypes.JSON(raw)
}

// persistEvaluated stores an evaluated attempt plus its compact summary
// in one transaction.
func persistEvaluated(result *models.TestResult, eval *utils.Evaluation) error {
	now := time.Now()

	result.OverallScore = eval.OverallScore
	result.BandScore = eval.OverallScore
	result.TaskAchievement = eval.DetailedScores["taskAchievement"]
	result.CoherenceCohesion = eval.DetailedScores["coherenceCohesion"]
	result.LexicalResource = eval.DetailedScores["lexicalResource"]
	result.GrammaticalRange = eval.DetailedScores["grammaticalRange"]
	result.Fluency = eval.DetailedScores["fluency"]
	result.Pronunciation = eval.DetailedScores["pronunciation"]
	result.OverallFeedback = eval.Feedback
	result.Strengths = toJSON(eval.Strengths)
	result.Weaknesses = toJSON(eval.Improvements)
	result.Recommendations = toJSON(eval.Recommendations)
	result.Status = models.TestEvaluated
	result.EvaluatedAt = &now

	tx := database.Database.Db.Begin()
	if err := tx.Create(result).Error; err != nil {
		tx.Rollback()
		return err
	}

	summary := models.TestSummary{
		UserID:       result.UserID,
		TestResultID: result.ID,
		Section:      string(result.Section),
		Score:        eval.OverallScore,
		MaxScore:     9,
		TakenAt:      now,
	}
	if err := tx.Create(&summary).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// persistFailed keeps the attempt on record when the AI reply could not
// be parsed, so the user sees the failed submission in their history.
func persistFailed(result *models.TestResult) {
	result.Status = models.TestFailed
	if err := database.Database.Db.Create(result).Error; err != nil {
		log.Printf("Error saving failed test result: %v", err)
	}
}

func evaluationResponse(c *fiber.Ctx, result *models.TestResult, eval *utils.Evaluation, message string) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"testResult": fiber.Map{
			"id":              result.ID,
			"score":           eval.OverallScore,
			"detailedScores":  eval.DetailedScores,
			"feedback":        eval.Feedback,
			"strengths":       eval.Strengths,
			"improvements":    eval.Improvements,
			"recommendations": eval.Recommendations,
		},
	})
}

// SubmitWriting forwards a writing attempt to the AI rubric and persists
// the parsed evaluation. Word count is not enforced here.
func SubmitWriting(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedWriting").(*struct {
		Task        string `json:"task"`
		TaskType    string `json:"taskType"`
		WritingText string `json:"writingText"`
		TimeSpent   int    `json:"timeSpent"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	prompt := fmt.Sprintf(`Evaluate this IELTS Writing %s response:

Task: %s
Response: %s
Time spent: %d seconds

Please provide:
1. Overall band score (0-9)
2. Detailed scores for:
   - Task Achievement/Response (0-9)
   - Coherence and Cohesion (0-9)
   - Lexical Resource (0-9)
   - Grammatical Range and Accuracy (0-9)
3. Detailed feedback
4. Strengths (3-5 points)
5. Areas for improvement (3-5 points)
6. Specific recommendations

Format as JSON with this structure:
{
  "overallScore": number,
  "detailedScores": {
    "taskAchievement": number,
    "coherenceCohesion": number,
    "lexicalResource": number,
    "grammaticalRange": number
  },
  "feedback": "string",
  "strengths": ["string"],
  "improvements": ["string"],
  "recommendations": ["string"]
}`, reqData.TaskType, reqData.Task, reqData.WritingText, reqData.TimeSpent)

	result := &models.TestResult{
		UserID:      userID,
		Section:     models.SectionWriting,
		TestType:    "practice",
		TimeSpent:   reqData.TimeSpent,
		WritingText: reqData.WritingText,
	}

	answer, err := utils.GenerateText(prompt)
	if err != nil {
		log.Printf("Writing evaluation error: %v", err)
		persistFailed(result)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error evaluating writing test!", nil)
	}

	eval, err := utils.ParseEvaluation(answer)
	if err != nil {
		log.Printf("Writing evaluation parse error: %v", err)
		persistFailed(result)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error evaluating writing test!", nil)
	}

	if err := persistEvaluated(result, eval); err != nil {
		log.Printf("Error saving writing test result: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save test result!", nil)
	}

	return evaluationResponse(c, result, eval, "Writing test evaluated successfully!")
}

// SubmitSpeaking forwards a speaking attempt (question/response pairs)
// to the AI rubric and persists the parsed evaluation.
func SubmitSpeaking(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSpeaking").(*struct {
		Questions []string `json:"questions"`
		Responses []string `json:"responses"`
		TimeSpent int      `json:"timeSpent"`
		AudioURL  string   `json:"audioUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var conversation strings.Builder
	for i, q := range reqData.Questions {
		fmt.Fprintf(&conversation, "Question %d: %s\nResponse: %s\n\n", i+1, q, reqData.Responses[i])
	}

	prompt := fmt.Sprintf(`Evaluate this IELTS Speaking test response:

%s
Time spent: %d seconds

Please provide:
1. Overall band score (0-9)
2. Detailed scores for:
   - Fluency and Coherence (0-9)
   - Lexical Resource (0-9)
   - Grammatical Range and Accuracy (0-9)
   - Pronunciation (0-9)
3. Detailed feedback
4. Strengths (3-5 points)
5. Areas for improvement (3-5 points)
6. Specific recommendations

Format as JSON with this structure:
{
  "overallScore": number,
  "detailedScores": {
    "fluency": number,
    "lexicalResource": number,
    "grammaticalRange": number,
    "pronunciation": number
  },
  "feedback": "string",
  "strengths": ["string"],
  "improvements": ["string"],
  "recommendations": ["string"]
}`, conversation.String(), reqData.TimeSpent)

	type questionEntry struct {
		Question   string `json:"question"`
		UserAnswer string `json:"userAnswer"`
	}
	questions := make([]questionEntry, len(reqData.Questions))
	for i, q := range reqData.Questions {
		questions[i] = questionEntry{Question: q, UserAnswer: reqData.Responses[i]}
	}

	result := &models.TestResult{
		UserID:    userID,
		Section:   models.SectionSpeaking,
		TestType:  "practice",
		TimeSpent: reqData.TimeSpent,
		AudioURL:  reqData.AudioURL,
		Questions: toJSON(questions),
	}

	answer, err := utils.GenerateText(prompt)
	if err != nil {
		log.Printf("Speaking evaluation error: %v", err)
		persistFailed(result)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error evaluating speaking test!", nil)
	}

	eval, err := utils.ParseEvaluation(answer)
	if err != nil {
		log.Printf("Speaking evaluation parse error: %v", err)
		persistFailed(result)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error evaluating speaking test!", nil)
	}

	if err := persistEvaluated(result, eval); err != nil {
		log.Printf("Error saving speaking test result: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save test result!", nil)
	}

	return evaluationResponse(c, result, eval, "Speaking test evaluated successfully!")
}

// GetResults lists the user's test attempts, newest first
func GetResults(c *fiber.Ctx) error {
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

	db := database.Database.Db.Model(&models.TestResult{}).Where("user_id = ?", userID)
	if section := c.Query("section"); section != "" {
		db = db.Where("section = ?", section)
	}

	var total int64
	db.Count(&total)

	var results []models.TestResult
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch test results!", nil)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test results fetched successfully!", fiber.Map{
		"results": results,
		"pagination": fiber.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalResults": total,
		},
	})
}

// GetLeaderboard ranks users by their best band score
func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	db := database.Database.Db.Model(&models.TestResult{}).
		Where("test_results.status = ?", models.TestEvaluated)

	if section := c.Query("section"); section != "" && section != "overall" {
		db = db.Where("test_results.section = ?", section)
	}

	type leaderboardEntry struct {
		UserID        uint      `json:"userId"`
		FirstName     string    `json:"firstName"`
		LastName      string    `json:"lastName"`
		Avatar        string    `json:"avatar"`
		TargetCountry string    `json:"targetCountry"`
		BestScore     float64   `json:"bestScore"`
		AverageScore  float64   `json:"averageScore"`
		TestCount     int64     `json:"testCount"`
		LastTestDate  time.Time `json:"lastTestDate"`
	}

	var leaderboard []leaderboardEntry
	if err := db.
		Select("test_results.user_id AS user_id, users.first_name, users.last_name, users.avatar, users.target_country, " +
			"MAX(test_results.overall_score) AS best_score, ROUND(AVG(test_results.overall_score), 1) AS average_score, " +
			"COUNT(*) AS test_count, MAX(test_results.created_at) AS last_test_date").
		Joins("JOIN users ON users.id = test_results.user_id AND users.is_deleted = false").
		Group("test_results.user_id, users.first_name, users.last_name, users.avatar, users.target_country").
		Order("best_score DESC, average_score DESC").
		Limit(limit).
		Scan(&leaderboard).Error; err != nil {
		log.Printf("Leaderboard error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", fiber.Map{
		"leaderboard": leaderboard,
	})
}

// GetAnalytics returns the user's monthly progress and per-section performance
func GetAnalytics(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var evaluated []models.TestResult
	db.Where("user_id = ? AND status = ?", userID, models.TestEvaluated).
		Order("created_at asc").Find(&evaluated)

	type monthlyEntry struct {
		Month        string  `json:"month"`
		Section      string  `json:"section"`
		AverageScore float64 `json:"averageScore"`
		BestScore    float64 `json:"bestScore"`
		TestCount    int     `json:"testCount"`
	}

	// bucket by month in Go to stay portable across drivers
	buckets := make(map[string]*monthlyEntry)
	var order []string
	for _, r := range evaluated {
		key := r.CreatedAt.Format("2006-01") + "|" + string(r.Section)
		entry, found := buckets[key]
		if !found {
			entry = &monthlyEntry{Month: r.CreatedAt.Format("2006-01"), Section: string(r.Section)}
			buckets[key] = entry
			order = append(order, key)
		}
		entry.AverageScore = (entry.AverageScore*float64(entry.TestCount) + r.OverallScore) / float64(entry.TestCount+1)
		if r.OverallScore > entry.BestScore {
			entry.BestScore = r.OverallScore
		}
		entry.TestCount++
	}

	monthly := make([]monthlyEntry, 0, len(order))
	for _, key := range order {
		monthly = append(monthly, *buckets[key])
	}

	type sectionEntry struct {
		Section      string  `json:"section"`
		AverageScore float64 `json:"averageScore"`
		BestScore    float64 `json:"bestScore"`
		TestCount    int64   `json:"testCount"`
	}

	var sections []sectionEntry
	db.Model(&models.TestResult{}).
		Where("user_id = ? AND status = ?", userID, models.TestEvaluated).
		Select("section, AVG(overall_score) AS average_score, MAX(overall_score) AS best_score, COUNT(*) AS test_count").
		Group("section").
		Scan(&sections)

	var totalTests int64
	db.Model(&models.TestResult{}).Where("user_id = ?", userID).Count(&totalTests)

	var overallAverage float64
	db.Model(&models.TestResult{}).
		Where("user_id = ? AND status = ?", userID, models.TestEvaluated).
		Select("COALESCE(AVG(overall_score), 0)").Scan(&overallAverage)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"monthlyProgress":    monthly,
		"sectionPerformance": sections,
		"totalTests":         totalTests,
		"overallAverage":     overallAverage,
	})
}
