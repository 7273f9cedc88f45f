package dto

import (
	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/services"
)

// IdentityDTO represents an identity in API responses. The credential hash
// is never exposed.
type IdentityDTO struct {
	Username     string `json:"username"`
	EmailAddress string `json:"email_address"`
	Active       bool   `json:"active"`
}

// ProjectSummaryDTO is one entry of a project listing
type ProjectSummaryDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ProjectListingDTO partitions projects by the caller's relation to them
type ProjectListingDTO struct {
	LedBy    []ProjectSummaryDTO `json:"led_by"`
	MemberOf []ProjectSummaryDTO `json:"member_of"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Leader  string        `json:"leader"`
	Members []IdentityDTO `json:"members"`
}

// ToIdentityDTO converts an identity to its DTO
func ToIdentityDTO(identity *models.Identity) IdentityDTO {
	return IdentityDTO{
		Username:     identity.Username,
		EmailAddress: identity.EmailAddress,
		Active:       identity.Active,
	}
}

// ToProjectListingDTO converts a listing to its DTO
func ToProjectListingDTO(listing *services.ProjectListing) ProjectListingDTO {
	return ProjectListingDTO{
		LedBy:    toSummaries(listing.LedBy),
		MemberOf: toSummaries(listing.MemberOf),
	}
}

func toSummaries(in []services.ProjectSummary) []ProjectSummaryDTO {
	out := make([]ProjectSummaryDTO, 0, len(in))
	for _, s := range in {
		out = append(out, ProjectSummaryDTO{ID: s.ID, Title: s.Title})
	}
	return out
}

// ToProjectDTO converts a project to its DTO
func ToProjectDTO(project *models.Project) ProjectDTO {
	members := make([]IdentityDTO, 0, len(project.Members))
	for _, m := range project.Members {
		members = append(members, ToIdentityDTO(m))
	}
	dto := ProjectDTO{ID: project.ID, Title: project.Title, Members: members}
	if project.Leader != nil {
		dto.Leader = project.Leader.Username
	}
	return dto
}
