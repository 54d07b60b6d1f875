package ai

import (
	"context"
)

// Action is what the user asked the assistant to do.
type Action string

const (
	ActionCreateTask   Action = "create_task"
	ActionUpdateTask   Action = "update_task"
	ActionListTasks    Action = "list_tasks"
	ActionCompleteTask Action = "complete_task"
	ActionHelp         Action = "help"
	ActionUnknown      Action = "unknown"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreateTask, ActionUpdateTask, ActionListTasks, ActionCompleteTask, ActionHelp, ActionUnknown:
		return true
	}
	return false
}

// TaskCommand holds the task fields recognized in a command. DueDate keeps
// whatever the provider produced ("2006-01-02 15:04" is asked for).
type TaskCommand struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	Category    string `json:"category,omitempty"`
}

// CommandResult is an interpreted command
type CommandResult struct {
	Action     Action      `json:"action"`
	Data       TaskCommand `json:"data"`
	Message    string      `json:"message"`
	Confidence float64     `json:"confidence"`
}

// Interpreter turns free text into a CommandResult.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*CommandResult, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI  ProviderType = "openai"
	ProviderGemini  ProviderType = "gemini"
	ProviderOllama  ProviderType = "ollama"
	ProviderKeyword ProviderType = "keyword"
	ProviderAuto    ProviderType = "auto"
)
