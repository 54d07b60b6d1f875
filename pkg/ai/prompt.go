package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = "You are a task management assistant. Always answer with valid JSON."

// buildPrompt asks for the CommandResult shape. The current date lets the
// model resolve "tomorrow" or "on Friday".
func buildPrompt(text string, now time.Time) string {
	return fmt.Sprintf(`You are a task management assistant. Analyze the user's command and answer in JSON with this structure:

{
  "action": "create_task|update_task|list_tasks|complete_task|help|unknown",
  "data": {
    "title": "task title",
    "description": "optional description",
    "dueDate": "YYYY-MM-DD HH:mm",
    "priority": "low|medium|high",
    "status": "pending|in_progress|completed",
    "category": "optional category"
  },
  "message": "friendly answer for the user",
  "confidence": 0.0-1.0
}

TODAY: %s

User command: %q

Answer with the JSON only:`, now.Format("Monday 2006-01-02 15:04"), text)
}

// parseCommand reads the first {...} block of a model answer. Missing
// fields get defaults; unrecognized actions become ActionUnknown.
func parseCommand(raw string) (*CommandResult, error) {
	raw = strings.TrimSpace(raw)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model answer")
	}

	var parsed struct {
		Action     Action       `json:"action"`
		Data       *TaskCommand `json:"data"`
		Message    string       `json:"message"`
		Confidence float64      `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse command JSON: %w", err)
	}

	res := &CommandResult{
		Action:     parsed.Action,
		Message:    parsed.Message,
		Confidence: parsed.Confidence,
	}
	if !res.Action.Valid() {
		res.Action = ActionUnknown
	}
	if parsed.Data != nil {
		res.Data = *parsed.Data
	}
	if res.Message == "" {
		res.Message = "I could not process your command"
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		res.Confidence = 0.5
	}
	return res, nil
}

// postJSON sends payload and returns the body of a 200 answer. Other status
// codes become errors carrying the code, which isQuotaError inspects.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
