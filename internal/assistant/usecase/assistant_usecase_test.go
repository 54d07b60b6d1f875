package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	taskdomain "tasko-backend/internal/task/domain"
	taskrepo "tasko-backend/internal/task/repository"
	taskusecase "tasko-backend/internal/task/usecase"
	"tasko-backend/pkg/ai"
	"tasko-backend/pkg/database"
)

type cannedInterpreter struct {
	res *ai.CommandResult
}

func (c cannedInterpreter) Interpret(context.Context, string) (*ai.CommandResult, error) {
	r := *c.res
	return &r, nil
}

func newTasks(t *testing.T) taskusecase.TaskUsecase {
	t.Helper()
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&taskdomain.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return taskusecase.NewTaskUsecase(taskrepo.NewGormTaskRepository(db), time.UTC)
}

func TestProcessCreatesTaskFromProviderData(t *testing.T) {
	tasks := newTasks(t)
	uc := NewAssistantUsecase(cannedInterpreter{&ai.CommandResult{
		Action: ai.ActionCreateTask,
		Data:   ai.TaskCommand{Title: "Dentist", DueDate: "2024-03-05 14:30", Priority: "high"},
	}}, tasks)

	out, err := uc.Process(context.Background(), "book the dentist on tuesday")
	if err != nil {
		t.Fatal(err)
	}
	task, ok := out.Result.(*taskdomain.Task)
	if !ok {
		t.Fatalf("result = %T, want *Task", out.Result)
	}
	if task.Priority != taskdomain.PriorityHigh || task.Status != taskdomain.TaskStatusPending || task.DueDate == nil {
		t.Fatalf("unexpected task %+v", task)
	}
	if out.Response.Message != `Task "Dentist" created successfully` {
		t.Fatalf("message = %q", out.Response.Message)
	}
}

func TestProcessReportsInvalidProviderData(t *testing.T) {
	uc := NewAssistantUsecase(cannedInterpreter{&ai.CommandResult{
		Action: ai.ActionCreateTask,
		Data:   ai.TaskCommand{Title: "Dentist", Priority: "urgent"},
	}}, newTasks(t))

	out, err := uc.Process(context.Background(), "dentist, urgent")
	if err != nil {
		t.Fatal(err)
	}
	if out.Result != nil || !strings.Contains(out.Response.Message, "Priority must be low, medium, or high") {
		t.Fatalf("unexpected outcome %+v %q", out.Result, out.Response.Message)
	}
}

func TestProcessListsPendingOnly(t *testing.T) {
	tasks := newTasks(t)
	ctx := context.Background()
	for _, req := range []taskusecase.TaskCreateRequest{
		{Title: "a"},
		{Title: "b", Status: "in_progress"},
		{Title: "c", Status: "completed"},
	} {
		if _, err := tasks.CreateTask(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	uc := NewAssistantUsecase(ai.NewKeywordInterpreter(), tasks)
	out, err := uc.Process(ctx, "what is pending?")
	if err != nil {
		t.Fatal(err)
	}
	pending := out.Result.([]*taskdomain.Task)
	if len(pending) != 2 || out.Response.Message != "You have 2 pending tasks" {
		t.Fatalf("got %d tasks, message %q", len(pending), out.Response.Message)
	}
}

func TestProcessRejectsBlankCommand(t *testing.T) {
	uc := NewAssistantUsecase(ai.NewKeywordInterpreter(), newTasks(t))
	_, err := uc.Process(context.Background(), "   ")
	var verr *taskdomain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestExtractTaskDataFallsBackToText(t *testing.T) {
	uc := NewAssistantUsecase(ai.NewKeywordInterpreter(), newTasks(t))
	ctx := context.Background()

	data, err := uc.ExtractTaskData(ctx, "water the plants")
	if err != nil {
		t.Fatal(err)
	}
	if data.Title != "water the plants" {
		t.Fatalf("title = %q", data.Title)
	}

	data, err = uc.ExtractTaskData(ctx, "add water the plants")
	if err != nil {
		t.Fatal(err)
	}
	if data.Title != "water the plants" {
		t.Fatalf("title = %q", data.Title)
	}
}
