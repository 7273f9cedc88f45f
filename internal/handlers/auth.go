package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/duty-tracker/internal/constants"
	"github.com/yukikurage/duty-tracker/internal/dto"
	apierrors "github.com/yukikurage/duty-tracker/internal/errors"
	"github.com/yukikurage/duty-tracker/internal/middleware"
	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	identityService *services.IdentityService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identityService *services.IdentityService) *AuthHandler {
	return &AuthHandler{
		identityService: identityService,
	}
}

// Signup registers a new identity.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	identity, err := h.identityService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIdentityDTO(identity))
}

// Login authenticates an identity and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	identity, err := h.identityService.Authenticate(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUsername, identity.Username)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(identity))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated identity.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	username, exists := middleware.GetUsername(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	identity, err := h.identityService.GetIdentity(c.Request.Context(), username)
	if err != nil {
		apierrors.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(identity))
}

// respondAuthError keeps unknown usernames indistinguishable from wrong
// passwords at the HTTP boundary.
func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, models.ErrUserNotFound), errors.Is(err, models.ErrInvalidCredential):
		apierrors.Unauthorized(c, models.ErrInvalidCredential.Error())
	case errors.Is(err, models.ErrIdentityInactive):
		apierrors.Unauthorized(c, models.ErrIdentityInactive.Error())
	default:
		apierrors.RespondDomainError(c, err)
	}
}
