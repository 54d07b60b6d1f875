package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService interprets commands with Gemini generateContent.
type GeminiService struct {
	ApiKey  string
	model   string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		ApiKey:  apiKey,
		model:   "gemini-2.5-flash",
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// Interpret implements Interpreter
func (g *GeminiService) Interpret(ctx context.Context, text string) (*CommandResult, error) {
	if g.ApiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.ApiKey)

	payload := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]string{{"text": systemPrompt}},
		},
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": buildPrompt(text, g.now())}}},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.3,
			"maxOutputTokens":  500,
			"responseMimeType": "application/json",
		},
	}

	body, err := postJSON(ctx, g.client, url, nil, payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: no candidates returned")
	}
	return parseCommand(result.Candidates[0].Content.Parts[0].Text)
}
