package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tidyhaus/scheduling-service/internal/http/middleware"
	"github.com/tidyhaus/scheduling-service/internal/model"
	"github.com/tidyhaus/scheduling-service/internal/service"
)

type Handler struct {
	generation *service.GenerationService
	log        zerolog.Logger
}

func NewHandler(generation *service.GenerationService, log zerolog.Logger) *Handler {
	return &Handler{generation: generation, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/contracts/:id/generate", h.generateInstances)
	protected.POST("/contracts/:id/roster/export", h.exportRoster)
}

type scheduleDayRequest struct {
	Weekday         string   `json:"weekday" binding:"required"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	Tasks           []string `json:"tasks"`
}

type generateInstancesRequest struct {
	WeeksAhead int                  `json:"weeks_ahead"`
	AssigneeID string               `json:"assignee_id"`
	Pay        *float64             `json:"pay"`
	Days       []scheduleDayRequest `json:"days"`
}

type instanceResponse struct {
	ID             string   `json:"id"`
	ScheduledStart string   `json:"scheduled_start"`
	ScheduledEnd   string   `json:"scheduled_end"`
	AssigneeID     *string  `json:"assignee_id"`
	Pay            *float64 `json:"pay"`
	Status         string   `json:"status"`
	Tasks          []string `json:"tasks"`
}

type generateInstancesResponse struct {
	Instances []instanceResponse `json:"instances"`
	Warnings  []string           `json:"warnings"`
}

func (h *Handler) generateInstances(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	// Body is optional; an empty body generates with configured defaults.
	var req generateInstancesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	input := service.GenerateInput{
		ContractID: contractID,
		WeeksAhead: req.WeeksAhead,
		Pay:        req.Pay,
		Principal:  principal,
	}
	if assignee := strings.TrimSpace(req.AssigneeID); assignee != "" {
		id, err := uuid.Parse(assignee)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee_id"})
			return
		}
		input.AssigneeID = &id
	}
	for i, day := range req.Days {
		input.Days = append(input.Days, model.ScheduleDay{
			Position:        i + 1,
			Weekday:         day.Weekday,
			StartTime:       day.StartTime,
			DurationMinutes: day.DurationMinutes,
			Tasks:           day.Tasks,
		})
	}

	result, err := h.generation.GenerateForContract(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := generateInstancesResponse{
		Instances: make([]instanceResponse, 0, len(result.Instances)),
		Warnings:  make([]string, 0, len(result.Warnings)),
	}
	for _, inst := range result.Instances {
		item := instanceResponse{
			ID:             inst.ID.String(),
			ScheduledStart: inst.ScheduledStart.Format(time.RFC3339),
			ScheduledEnd:   inst.ScheduledEnd.Format(time.RFC3339),
			Pay:            inst.Pay,
			Status:         string(inst.Status),
		}
		if inst.AssigneeID != nil {
			assignee := inst.AssigneeID.String()
			item.AssigneeID = &assignee
		}
		for _, task := range inst.Tasks {
			item.Tasks = append(item.Tasks, task.Title)
		}
		resp.Instances = append(resp.Instances, item)
	}
	for _, warning := range result.Warnings {
		resp.Warnings = append(resp.Warnings, warning.String())
	}

	c.JSON(http.StatusOK, resp)
}

type exportRosterRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

func (h *Handler) exportRoster(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req exportRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_start"})
		return
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_end"})
		return
	}

	result, err := h.generation.ExportRoster(c.Request.Context(), service.ExportRosterInput{
		ContractID:  contractID,
		PeriodStart: start,
		PeriodEnd:   end,
		Principal:   principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("schedule generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
