package usecase

import (
	"context"

	"tasko-backend/pkg/ai"
)

// AssistantUsecase runs natural-language commands against the task list.
type AssistantUsecase interface {
	// Process interprets command and carries out the recognized action
	Process(ctx context.Context, command string) (*ProcessResult, error)

	// ExtractTaskData returns the task fields found in text, or just the
	// text as title when nothing was recognized
	ExtractTaskData(ctx context.Context, text string) (*ai.TaskCommand, error)
}

// ProcessResult pairs the interpretation with what was done: the created
// task for create_task, the pending tasks for list_tasks, nil otherwise.
type ProcessResult struct {
	Response *ai.CommandResult `json:"response"`
	Result   interface{}       `json:"result"`
}
