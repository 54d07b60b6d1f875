package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIService interprets commands with the chat completions API.
type OpenAIService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewOpenAIService(apiKey, model string) *OpenAIService {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAIService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Interpret implements Interpreter
func (o *OpenAIService) Interpret(ctx context.Context, text string) (*CommandResult, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	reqBody := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(text, o.now())},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	}

	body, err := postJSON(ctx, o.client, strings.TrimRight(o.baseURL, "/")+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + o.apiKey}, reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: failed to parse response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices returned")
	}
	return parseCommand(resp.Choices[0].Message.Content)
}
