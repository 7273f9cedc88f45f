package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/duty-tracker/internal/dto"
	apierrors "github.com/yukikurage/duty-tracker/internal/errors"
	"github.com/yukikurage/duty-tracker/internal/middleware"
	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/services"
	"github.com/yukikurage/duty-tracker/internal/utils"
)

// DutyHandler serves duty endpoints nested under a project.
type DutyHandler struct {
	dutyService *services.DutyService
}

func NewDutyHandler(dutyService *services.DutyService) *DutyHandler {
	return &DutyHandler{dutyService: dutyService}
}

// ListDuties handles GET /api/projects/:id/duties
func (h *DutyHandler) ListDuties(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	duties, err := h.dutyService.ListDuties(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}

	pagination := utils.GetPaginationParams(c)
	start, end := pagination.Window(len(duties))
	c.JSON(http.StatusOK, dto.DutyListResponse{
		Duties:     dto.ToDutyDTOs(duties[start:end]),
		Pagination: pagination.Response(len(duties)),
	})
}

// CreateDuty handles POST /api/projects/:id/duties
func (h *DutyHandler) CreateDuty(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		ID        string   `json:"id" binding:"required,max=100"`
		Title     string   `json:"title" binding:"required,max=200"`
		Detail    string   `json:"detail"`
		Assignees []string `json:"assignees"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	duty, err := h.dutyService.CreateDuty(c.Request.Context(), services.CreateDutyInput{
		ProjectID: c.Param("id"),
		DutyID:    req.ID,
		Title:     req.Title,
		Detail:    req.Detail,
		Assignees: req.Assignees,
		Actor:     username,
	})
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDutyDTO(duty))
}

// AssignDuty handles POST /api/projects/:id/duties/:duty_id/assign
func (h *DutyHandler) AssignDuty(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	duty, err := h.dutyService.AssignDuty(c.Request.Context(), services.AssignInput{
		ProjectID: c.Param("id"),
		DutyID:    c.Param("duty_id"),
		Username:  req.Username,
		Actor:     username,
	})
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDutyDTO(duty))
}

// UnassignDuty handles POST /api/projects/:id/duties/:duty_id/unassign
func (h *DutyHandler) UnassignDuty(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	duty, err := h.dutyService.UnassignDuty(c.Request.Context(), services.UnassignInput{
		ProjectID: c.Param("id"),
		DutyID:    c.Param("duty_id"),
		Actor:     username,
	})
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDutyDTO(duty))
}

// UpdateDuty handles PATCH /api/projects/:id/duties/:duty_id
func (h *DutyHandler) UpdateDuty(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Title      *string `json:"title" binding:"omitempty,max=200"`
		Detail     *string `json:"detail"`
		StartTime  *string `json:"start_time"`
		FinishTime *string `json:"finish_time"`
		Priority   *string `json:"priority"`
		Status     *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := models.DutyUpdate{
		Title:      req.Title,
		Detail:     req.Detail,
		StartTime:  req.StartTime,
		FinishTime: req.FinishTime,
		Priority:   req.Priority,
		Status:     req.Status,
	}
	if fields.IsEmpty() {
		apierrors.BadRequest(c, "No fields to update")
		return
	}

	duty, err := h.dutyService.UpdateDutyDetails(c.Request.Context(), services.UpdateDutyInput{
		Actor:     username,
		ProjectID: c.Param("id"),
		DutyID:    c.Param("duty_id"),
		Fields:    fields,
	})
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDutyDTO(duty))
}

// SuggestDuties handles POST /api/projects/:id/duties/suggest
func (h *DutyHandler) SuggestDuties(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.dutyService.SuggestDuties(c.Request.Context(), services.SuggestDutiesInput{
		ProjectID: c.Param("id"),
		Text:      req.Text,
		Actor:     username,
	})
	if err != nil {
		respondSuggestError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuggestedDutiesResponse{Duties: suggestions})
}

func respondSuggestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoDutiesGenerated),
		errors.Is(err, services.ErrAINoValidDuties),
		errors.Is(err, services.ErrAITooManyDuties):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity, apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, err.Error()))
	case models.KindOf(err) != nil:
		apierrors.RespondDomainError(c, err)
	default:
		_ = c.Error(err)
		apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, "Failed to generate duties"))
	}
}
