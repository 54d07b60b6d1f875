package delivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	notificationdomain "tasko-backend/internal/notification/domain"
	"tasko-backend/internal/task/domain"
	"tasko-backend/internal/task/repository"
	"tasko-backend/internal/task/usecase"
	"tasko-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Count   *int            `json:"count"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}, &notificationdomain.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := gin.New()
	NewTaskHandler(usecase.NewTaskUsecase(repository.NewGormTaskRepository(db), time.UTC)).RegisterRoutes(r.Group("/api"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: bad body %q", method, path, w.Body.String())
	}
	return w.Code, env
}

func TestTaskLifecycle(t *testing.T) {
	r := setupRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/tasks", `{"title":"Write report","priority":"high","dueDate":"2030-01-01T09:00:00Z"}`)
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("create: %d %+v", code, env)
	}
	var task domain.Task
	json.Unmarshal(env.Data, &task)
	if task.ID == "" || task.Priority != domain.PriorityHigh {
		t.Fatalf("created %+v", task)
	}

	code, env = do(t, r, http.MethodGet, "/api/tasks", "")
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list: %d %+v", code, env)
	}

	code, env = do(t, r, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{"status":"completed"}`)
	if code != http.StatusOK {
		t.Fatalf("status: %d %+v", code, env)
	}

	code, env = do(t, r, http.MethodGet, "/api/tasks/status/completed", "")
	if code != http.StatusOK || *env.Count != 1 {
		t.Fatalf("by status: %d %+v", code, env)
	}

	code, env = do(t, r, http.MethodPut, "/api/tasks/"+task.ID, `{"title":"Write final report"}`)
	json.Unmarshal(env.Data, &task)
	if code != http.StatusOK || task.Title != "Write final report" || task.Status != domain.TaskStatusCompleted {
		t.Fatalf("update: %d %+v", code, task)
	}

	if code, _ = do(t, r, http.MethodDelete, "/api/tasks/"+task.ID, ""); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code, env = do(t, r, http.MethodGet, "/api/tasks/"+task.ID, ""); code != http.StatusNotFound || env.Error != "Task not found" {
		t.Fatalf("get deleted: %d %+v", code, env)
	}
}

func TestTaskValidationErrors(t *testing.T) {
	r := setupRouter(t)

	cases := []struct {
		method, path, body, want string
	}{
		{http.MethodPost, "/api/tasks", `{"title":""}`, "Title is required"},
		{http.MethodPost, "/api/tasks", `{"title":"x","priority":"asap"}`, "Priority must be low, medium, or high"},
		{http.MethodPost, "/api/tasks", `not json`, "Invalid request body"},
		{http.MethodGet, "/api/tasks/status/archived", "", "Status must be pending, in_progress, or completed"},
		{http.MethodPatch, "/api/tasks/any/status", `{}`, "status is required"},
	}
	for _, c := range cases {
		code, env := do(t, r, c.method, c.path, c.body)
		if code != http.StatusBadRequest || env.Error != c.want {
			t.Errorf("%s %s: %d %q, want 400 %q", c.method, c.path, code, env.Error, c.want)
		}
	}
}

func TestOverdueAndReminderListsAreEmptyArrays(t *testing.T) {
	r := setupRouter(t)
	for _, path := range []string{"/api/tasks/overdue", "/api/tasks/reminders"} {
		code, env := do(t, r, http.MethodGet, path, "")
		if code != http.StatusOK || string(env.Data) != "[]" {
			t.Fatalf("%s: %d %s", path, code, env.Data)
		}
	}
}
