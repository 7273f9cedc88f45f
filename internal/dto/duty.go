package dto

import (
	"time"

	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/services"
	"github.com/yukikurage/duty-tracker/internal/utils"
)

// DutyDTO represents a duty in API responses
type DutyDTO struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Detail     string            `json:"detail"`
	StartTime  time.Time         `json:"start_time"`
	FinishTime time.Time         `json:"finish_time"`
	Priority   models.Priority   `json:"priority"`
	Status     models.DutyStatus `json:"status"`
	Assignees  []string          `json:"assignees"`
	AssignedTo *string           `json:"assigned_to"`
}

// DutyListResponse represents a paginated list of duties
type DutyListResponse struct {
	Duties     []DutyDTO                `json:"duties"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// SuggestedDutiesResponse wraps AI drafted duties
type SuggestedDutiesResponse struct {
	Duties []services.SuggestedDuty `json:"duties"`
}

// ToDutyDTO converts a duty to its DTO
func ToDutyDTO(duty *models.Duty) DutyDTO {
	assignees := make([]string, 0, len(duty.Assignees))
	for _, a := range duty.Assignees {
		assignees = append(assignees, a.Username)
	}
	dto := DutyDTO{
		ID:         duty.ID,
		Title:      duty.Title,
		Detail:     duty.Detail,
		StartTime:  duty.StartTime,
		FinishTime: duty.FinishTime,
		Priority:   duty.Priority,
		Status:     duty.Status,
		Assignees:  assignees,
	}
	if duty.AssignedTo != nil {
		username := duty.AssignedTo.Username
		dto.AssignedTo = &username
	}
	return dto
}

// ToDutyDTOs converts duties to DTOs
func ToDutyDTOs(duties []*models.Duty) []DutyDTO {
	out := make([]DutyDTO, 0, len(duties))
	for _, d := range duties {
		out = append(out, ToDutyDTO(d))
	}
	return out
}
