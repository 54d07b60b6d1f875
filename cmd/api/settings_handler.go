package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"tasko-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

// RuntimeSettings holds the Ollama settings that can change while the server
// runs. The AI interpreter reads them through the getters on every call.
type RuntimeSettings struct {
	mu            sync.RWMutex
	ollamaBaseURL string
	ollamaModel   string
}

// NewRuntimeSettings seeds the runtime settings from static config
func NewRuntimeSettings(ollamaBaseURL, ollamaModel string) *RuntimeSettings {
	return &RuntimeSettings{ollamaBaseURL: ollamaBaseURL, ollamaModel: ollamaModel}
}

// OllamaBaseURL returns the current runtime Ollama base URL
func (s *RuntimeSettings) OllamaBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaBaseURL
}

// OllamaModel returns the current runtime Ollama model
func (s *RuntimeSettings) OllamaModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaModel
}

func (s *RuntimeSettings) updateOllama(baseURL, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ollamaBaseURL = baseURL
	if model != "" {
		s.ollamaModel = model
	}
}

// SettingsHandler serves /api/settings
type SettingsHandler struct {
	settings *RuntimeSettings
	ollama   *ai.OllamaService
}

func NewSettingsHandler(settings *RuntimeSettings) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		ollama:   ai.NewOllamaServiceWithGetters(settings.OllamaBaseURL, settings.OllamaModel),
	}
}

func (h *SettingsHandler) RegisterRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings")
	{
		settings.GET("/ollama", h.GetOllamaSettings)
		settings.PUT("/ollama", h.UpdateOllamaSettings)
		settings.POST("/ollama/test", h.TestOllamaConnection)
	}
}

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetOllamaSettings returns current Ollama configuration
// GET /api/settings/ollama
func (h *SettingsHandler) GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"ollama_base_url": h.settings.OllamaBaseURL(),
		"ollama_model":    h.settings.OllamaModel(),
	})
}

// UpdateOllamaSettings updates Ollama configuration at runtime
// PUT /api/settings/ollama
func (h *SettingsHandler) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ollama_base_url is required"})
		return
	}

	h.settings.updateOllama(strings.TrimRight(req.OllamaBaseURL, "/"), req.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": h.settings.OllamaBaseURL(),
		"ollama_model":    h.settings.OllamaModel(),
	})
}

// TestOllamaConnection tests if the Ollama server is reachable
// POST /api/settings/ollama/test
func (h *SettingsHandler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// An empty or missing body tests the current settings
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.settings.OllamaBaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.ollama.Ping(ctx, req.OllamaBaseURL); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
	})
}
