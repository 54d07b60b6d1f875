package delivery

import (
	"errors"
	"log"
	"tasko-backend/internal/task/domain"
	"tasko-backend/internal/task/usecase"
	"tasko-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
	}
}

// RegisterRoutes mounts the task endpoints on /api/tasks
func (h *TaskHandler) RegisterRoutes(api *gin.RouterGroup) {
	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.GetTasks)
		tasks.GET("/status/:status", h.GetTasksByStatus)
		tasks.GET("/overdue", h.GetOverdueTasks)
		tasks.GET("/reminders", h.GetTasksWithReminders)
		tasks.GET("/:id", h.GetTaskByID)
		tasks.POST("", h.CreateTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.PATCH("/:id/status", h.UpdateTaskStatus)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}

// GetTasks returns all tasks
// GET /api/tasks?status=pending&category=work
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks(c.Request.Context(), c.Query("status"), c.Query("category"))
	if err != nil {
		respondError(c, err, "Failed to fetch tasks")
		return
	}
	response.List(c, tasks)
}

// GetTasksByStatus returns tasks in one status
// GET /api/tasks/status/:status
func (h *TaskHandler) GetTasksByStatus(c *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks(c.Request.Context(), c.Param("status"), "")
	if err != nil {
		respondError(c, err, "Failed to fetch tasks by status")
		return
	}
	response.List(c, tasks)
}

// GetOverdueTasks returns unfinished tasks past their due date
// GET /api/tasks/overdue
func (h *TaskHandler) GetOverdueTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.ListOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch overdue tasks")
		return
	}
	response.List(c, tasks)
}

// GetTasksWithReminders returns unfinished tasks that carry a reminder
// GET /api/tasks/reminders
func (h *TaskHandler) GetTasksWithReminders(c *gin.Context) {
	tasks, err := h.taskUsecase.ListWithReminders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch tasks with reminders")
		return
	}
	response.List(c, tasks)
}

// GetTaskByID returns a specific task
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskUsecase.GetTaskByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch task")
		return
	}
	response.OK(c, task)
}

// CreateTask creates a new task manually
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req usecase.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create task")
		return
	}
	response.Created(c, task, "Task created successfully")
}

// UpdateTask updates an existing task
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var updates usecase.TaskUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}
	response.OKWithMessage(c, task, "Task updated successfully")
}

// UpdateTaskStatus is a convenience endpoint to just update status
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), c.Param("id"), usecase.TaskUpdateRequest{Status: &req.Status})
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}
	response.OKWithMessage(c, task, "Task updated successfully")
}

// DeleteTask deletes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskUsecase.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}
	response.OKWithMessage(c, nil, "Task deleted successfully")
}

func respondError(c *gin.Context, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, verr.Message)
	case errors.Is(err, domain.ErrTaskNotFound):
		response.NotFound(c, "Task not found")
	default:
		log.Printf("[TaskHandler] %s: %v", fallback, err)
		response.Internal(c, fallback)
	}
}
