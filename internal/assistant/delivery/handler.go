package delivery

import (
	"errors"
	"log"
	"net/http"

	"tasko-backend/internal/assistant/usecase"
	taskdomain "tasko-backend/internal/task/domain"
	"tasko-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistantUsecase usecase.AssistantUsecase
}

func NewAssistantHandler(assistantUsecase usecase.AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{assistantUsecase: assistantUsecase}
}

func (h *AssistantHandler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/ai")
	{
		g.POST("/process", h.ProcessCommand)
		g.POST("/extract-task", h.ExtractTask)
	}
}

// ProcessCommand interprets and runs a chat command
// POST /api/ai/process
func (h *AssistantHandler) ProcessCommand(c *gin.Context) {
	var req struct {
		Command string `json:"command"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "command is required and must be a string")
		return
	}

	out, err := h.assistantUsecase.Process(c.Request.Context(), req.Command)
	if err != nil {
		respondError(c, err, "Failed to process command")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "response": out.Response, "result": out.Result})
}

// ExtractTask returns the task fields recognized in free text
// POST /api/ai/extract-task
func (h *AssistantHandler) ExtractTask(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "text is required and must be a string")
		return
	}

	data, err := h.assistantUsecase.ExtractTaskData(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err, "Failed to extract task data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "taskData": data})
}

func respondError(c *gin.Context, err error, fallback string) {
	var verr *taskdomain.ValidationError
	if errors.As(err, &verr) {
		response.BadRequest(c, verr.Message)
		return
	}
	log.Printf("[AssistantHandler] %s: %v", fallback, err)
	response.Internal(c, fallback)
}
