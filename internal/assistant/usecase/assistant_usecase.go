package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	taskdomain "tasko-backend/internal/task/domain"
	taskusecase "tasko-backend/internal/task/usecase"
	"tasko-backend/pkg/ai"
)

type assistantUsecase struct {
	interpreter ai.Interpreter
	tasks       taskusecase.TaskUsecase
}

func NewAssistantUsecase(interpreter ai.Interpreter, tasks taskusecase.TaskUsecase) AssistantUsecase {
	return &assistantUsecase{interpreter: interpreter, tasks: tasks}
}

func (u *assistantUsecase) Process(ctx context.Context, command string) (*ProcessResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, taskdomain.NewValidationError("command is required")
	}

	res, err := u.interpreter.Interpret(ctx, command)
	if err != nil {
		return nil, fmt.Errorf("interpret command: %w", err)
	}

	out := &ProcessResult{Response: res}
	switch res.Action {
	case ai.ActionCreateTask:
		if res.Data.Title == "" {
			break
		}
		task, err := u.createTask(ctx, res.Data)
		var verr *taskdomain.ValidationError
		switch {
		case errors.As(err, &verr):
			res.Message = "Could not create the task: " + verr.Message
		case err != nil:
			return nil, err
		default:
			out.Result = task
			res.Message = fmt.Sprintf("Task %q created successfully", task.Title)
		}

	case ai.ActionListTasks:
		pending, err := u.pendingTasks(ctx)
		if err != nil {
			return nil, err
		}
		out.Result = pending
		res.Message = fmt.Sprintf("You have %d pending tasks", len(pending))

	case ai.ActionCompleteTask:
		res.Message = "Please specify which task you want to mark as completed"

	case ai.ActionUpdateTask:
		res.Message = "Editing tasks from chat is not supported yet. Open the task to change it."

	case ai.ActionHelp:
		res.Message = ai.HelpMessage

	default:
		res.Message = ai.UnknownMessage
	}

	log.Printf("[Assistant] %q -> %s (confidence %.2f)", command, res.Action, res.Confidence)
	return out, nil
}

func (u *assistantUsecase) createTask(ctx context.Context, data ai.TaskCommand) (*taskdomain.Task, error) {
	req := taskusecase.TaskCreateRequest{
		Title:       data.Title,
		Description: data.Description,
		Priority:    data.Priority,
		Status:      data.Status,
		Category:    data.Category,
	}
	if data.DueDate != "" {
		due := data.DueDate
		req.DueDate = &due
	}
	return u.tasks.CreateTask(ctx, req)
}

func (u *assistantUsecase) pendingTasks(ctx context.Context) ([]*taskdomain.Task, error) {
	all, err := u.tasks.ListTasks(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	pending := make([]*taskdomain.Task, 0, len(all))
	for _, t := range all {
		if t.Status != taskdomain.TaskStatusCompleted {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (u *assistantUsecase) ExtractTaskData(ctx context.Context, text string) (*ai.TaskCommand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, taskdomain.NewValidationError("text is required")
	}
	res, err := u.interpreter.Interpret(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("interpret text: %w", err)
	}
	if res.Data == (ai.TaskCommand{}) {
		return &ai.TaskCommand{Title: text}, nil
	}
	return &res.Data, nil
}
