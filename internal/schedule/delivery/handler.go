package delivery

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tasko-backend/internal/schedule/domain"
	"tasko-backend/internal/schedule/usecase"
	taskusecase "tasko-backend/internal/task/usecase"
	"tasko-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler handles weekly schedule and slot HTTP requests
type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	loc             *time.Location
	now             func() time.Time
}

// NewScheduleHandler creates a new ScheduleHandler. Date-only ranges are read
// in loc, the schedule's configured zone (time.Local when nil).
func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, loc *time.Location) *ScheduleHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		loc:             loc,
		now:             time.Now,
	}
}

// RegisterRoutes mounts the schedule endpoints on /api/schedules
func (h *ScheduleHandler) RegisterRoutes(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.POST("", h.CreateSchedule)
		schedules.GET("", h.GetSchedules)
		schedules.GET("/current/activity", h.GetCurrentActivity)
		schedules.GET("/next/activity", h.GetNextActivity)
		schedules.GET("/weekly/view", h.GetWeeklyView)
		schedules.PUT("/slots/:slotId", h.UpdateSlot)
		schedules.DELETE("/slots/:slotId", h.DeleteSlot)
		schedules.GET("/:id", h.GetSchedule)
		schedules.PUT("/:id", h.UpdateSchedule)
		schedules.DELETE("/:id", h.DeleteSchedule)
		schedules.POST("/:id/slots", h.CreateSlot)
		schedules.GET("/:id/slots", h.GetSlots)
		schedules.GET("/:id/slots/at", h.GetSlotsAt)
		schedules.GET("/:id/current", h.GetCurrentInSchedule)
		schedules.POST("/:id/generate-tasks", h.GenerateTasks)
	}
}

// CreateSchedule creates a new weekly schedule
// POST /api/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req usecase.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	schedule, err := h.scheduleUsecase.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create schedule")
		return
	}
	response.Created(c, schedule, "Schedule created successfully")
}

// GetSchedules lists all schedules
// GET /api/schedules
func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	schedules, err := h.scheduleUsecase.ListSchedules(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch schedules")
		return
	}
	response.List(c, schedules)
}

// GetSchedule returns one schedule with its slots
// GET /api/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.scheduleUsecase.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch schedule")
		return
	}
	response.OK(c, schedule)
}

// UpdateSchedule applies a partial update
// PUT /api/schedules/:id
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req usecase.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	schedule, err := h.scheduleUsecase.UpdateSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update schedule")
		return
	}
	response.OKWithMessage(c, schedule, "Schedule updated successfully")
}

// DeleteSchedule deletes a schedule and its slots
// DELETE /api/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.scheduleUsecase.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete schedule")
		return
	}
	response.OKWithMessage(c, nil, "Schedule deleted successfully")
}

// CreateSlot adds a slot to a schedule
// POST /api/schedules/:id/slots
func (h *ScheduleHandler) CreateSlot(c *gin.Context) {
	var req usecase.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	slot, err := h.scheduleUsecase.CreateSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to create slot")
		return
	}
	response.Created(c, slot, "Slot created successfully")
}

// GetSlots lists a schedule's slots
// GET /api/schedules/:id/slots
func (h *ScheduleHandler) GetSlots(c *gin.Context) {
	slots, err := h.scheduleUsecase.ListSlots(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch slots")
		return
	}
	response.List(c, slots)
}

// UpdateSlot applies a partial update to a slot
// PUT /api/schedules/slots/:slotId
func (h *ScheduleHandler) UpdateSlot(c *gin.Context) {
	var req usecase.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	slot, err := h.scheduleUsecase.UpdateSlot(c.Request.Context(), c.Param("slotId"), req)
	if err != nil {
		respondError(c, err, "Failed to update slot")
		return
	}
	response.OKWithMessage(c, slot, "Slot updated successfully")
}

// DeleteSlot deletes a slot
// DELETE /api/schedules/slots/:slotId
func (h *ScheduleHandler) DeleteSlot(c *gin.Context) {
	if err := h.scheduleUsecase.DeleteSlot(c.Request.Context(), c.Param("slotId")); err != nil {
		respondError(c, err, "Failed to delete slot")
		return
	}
	response.OKWithMessage(c, nil, "Slot deleted successfully")
}

// GetCurrentActivity returns the slot happening right now, or null
// GET /api/schedules/current/activity
func (h *ScheduleHandler) GetCurrentActivity(c *gin.Context) {
	slot, err := h.scheduleUsecase.CurrentSlot(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, err, "Failed to fetch current activity")
		return
	}
	response.OK(c, slot)
}

// GetNextActivity returns the slot starting soonest, or null
// GET /api/schedules/next/activity
func (h *ScheduleHandler) GetNextActivity(c *gin.Context) {
	slot, err := h.scheduleUsecase.NextSlot(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, err, "Failed to fetch next activity")
		return
	}
	response.OK(c, slot)
}

// GetWeeklyView lists all active slots in week order
// GET /api/schedules/weekly/view
func (h *ScheduleHandler) GetWeeklyView(c *gin.Context) {
	slots, err := h.scheduleUsecase.WeeklyView(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch weekly view")
		return
	}
	response.List(c, slots)
}

// GetCurrentInSchedule returns the slot of one schedule happening now
// GET /api/schedules/:id/current
func (h *ScheduleHandler) GetCurrentInSchedule(c *gin.Context) {
	slot, err := h.scheduleUsecase.CurrentSlotInSchedule(c.Request.Context(), c.Param("id"), h.now())
	if err != nil {
		respondError(c, err, "Failed to fetch current slot")
		return
	}
	response.OK(c, slot)
}

// GetSlotsAt lists a schedule's slots at a weekday and time
// GET /api/schedules/:id/slots/at?day=3&time=09:30
func (h *ScheduleHandler) GetSlotsAt(c *gin.Context) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil || c.Query("time") == "" {
		response.BadRequest(c, "day and time are required")
		return
	}
	slots, err := h.scheduleUsecase.SlotsAt(c.Request.Context(), c.Param("id"), day, c.Query("time"))
	if err != nil {
		respondError(c, err, "Failed to fetch slots")
		return
	}
	response.List(c, slots)
}

// GenerateTasks materializes the schedule's recurring slots in a date range
// POST /api/schedules/:id/generate-tasks
func (h *ScheduleHandler) GenerateTasks(c *gin.Context) {
	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.StartDate == "" || req.EndDate == "" {
		response.BadRequest(c, "startDate and endDate are required")
		return
	}
	start, err := taskusecase.ParseDueDate(req.StartDate, h.loc)
	if err != nil {
		response.BadRequest(c, "startDate must be an ISO 8601 date")
		return
	}
	end, err := taskusecase.ParseDueDate(req.EndDate, h.loc)
	if err != nil {
		response.BadRequest(c, "endDate must be an ISO 8601 date")
		return
	}

	tasks, err := h.scheduleUsecase.GenerateForSchedule(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err, "Failed to generate tasks")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    tasks,
		"count":   len(tasks),
		"message": strconv.Itoa(len(tasks)) + " tasks generated",
	})
}

func respondError(c *gin.Context, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, verr.Message)
	case errors.Is(err, domain.ErrScheduleNotFound):
		response.NotFound(c, "Schedule not found")
	case errors.Is(err, domain.ErrSlotNotFound):
		response.NotFound(c, "Slot not found")
	default:
		log.Printf("[ScheduleHandler] %s: %v", fallback, err)
		response.Internal(c, fallback)
	}
}
