package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/duty-tracker/internal/constants"
	"github.com/yukikurage/duty-tracker/internal/logging"
	"github.com/yukikurage/duty-tracker/internal/middleware"
	"github.com/yukikurage/duty-tracker/internal/services"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Identities   *services.IdentityService
	Projects     *services.ProjectService
	Duties       *services.DutyService
	SessionStore sessions.Store
	Logger       *slog.Logger
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// SetupRouter wires middleware and routes onto a new gin engine.
func SetupRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, cfg.SessionStore))

	authHandler := NewAuthHandler(cfg.Identities)
	projectHandler := NewProjectHandler(cfg.Projects)
	dutyHandler := NewDutyHandler(cfg.Duties)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Duty Tracker API is running",
		})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.DELETE("/:id/members/:username", projectHandler.RemoveMember)

			projects.GET("/:id/duties", dutyHandler.ListDuties)
			projects.POST("/:id/duties", dutyHandler.CreateDuty)
			projects.POST("/:id/duties/suggest", dutyHandler.SuggestDuties)
			projects.PATCH("/:id/duties/:duty_id", dutyHandler.UpdateDuty)
			projects.POST("/:id/duties/:duty_id/assign", dutyHandler.AssignDuty)
			projects.POST("/:id/duties/:duty_id/unassign", dutyHandler.UnassignDuty)
		}
	}

	return r
}
