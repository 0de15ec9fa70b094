package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"sab/config"

	"github.com/go-resty/resty/v2"
)

const geminiModel = "gemini-pro"

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a prompt to the Gemini text-completion API and
// returns the raw generated text.
func GenerateText(prompt string) (string, error) {
	if config.AppConfig.GeminiApiKey == "" {
		return "", fmt.Errorf("Gemini API key is not configured")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		config.AppConfig.GeminiApiUrl, geminiModel, config.AppConfig.GeminiApiKey)

	client := resty.New().SetTimeout(60 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}).
		Post(url)
	if err != nil {
		log.Printf("Gemini request error: %v", err)
		return "", err
	}

	var genResp geminiResponse
	if err := json.Unmarshal(resp.Body(), &genResp); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %v", err)
	}

	if resp.StatusCode() != 200 {
		log.Printf("Gemini API error (%d): %s", resp.StatusCode(), genResp.Error.Message)
		return "", fmt.Errorf("Gemini API error: %s", genResp.Error.Message)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned no candidates")
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// Evaluation is the constrained JSON shape the IELTS rubric prompts ask
// Gemini to produce.
type Evaluation struct {
	OverallScore    float64            `json:"overallScore"`
	DetailedScores  map[string]float64 `json:"detailedScores"`
	Feedback        string             `json:"feedback"`
	Strengths       []string           `json:"strengths"`
	Improvements    []string           `json:"improvements"`
	Recommendations []string           `json:"recommendations"`
}

// ParseEvaluation decodes a Gemini evaluation reply. Models often wrap
// JSON in markdown code fences; those are tolerated and stripped.
func ParseEvaluation(text string) (*Evaluation, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return nil, fmt.Errorf("evaluation is not valid JSON: %v", err)
	}

	if eval.OverallScore < 0 || eval.OverallScore > 9 {
		return nil, fmt.Errorf("overall score %.1f outside band scale", eval.OverallScore)
	}

	return &eval, nil
}
