package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/duty-tracker/internal/dto"
	apierrors "github.com/yukikurage/duty-tracker/internal/errors"
	"github.com/yukikurage/duty-tracker/internal/middleware"
	"github.com/yukikurage/duty-tracker/internal/services"
)

// ProjectHandler serves project and roster endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	listing, err := h.projectService.ListProjectsFor(c.Request.Context(), username)
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectListingDTO(listing))
}

// CreateProject handles POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		ID    string `json:"id" binding:"required,max=100"`
		Title string `json:"title" binding:"required,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		ID:     req.ID,
		Title:  req.Title,
		Leader: username,
	})
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectDTO(project))
}

// GetProject handles GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// DeleteProject handles DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), c.Param("id"), username); err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// AddMember handles POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
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

	err := h.projectService.AddMember(c.Request.Context(), services.MemberInput{
		ProjectID: c.Param("id"),
		Username:  req.Username,
		Actor:     username,
	})
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Member added successfully"})
}

// RemoveMember handles DELETE /api/projects/:id/members/:username
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	err := h.projectService.RemoveMember(c.Request.Context(), services.MemberInput{
		ProjectID: c.Param("id"),
		Username:  c.Param("username"),
		Actor:     username,
	})
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
