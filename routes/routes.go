package routes

import (
	"net/http"

	"innovation-portal-api/controllers"
	"innovation-portal-api/middleware"
	"innovation-portal-api/models"

	"github.com/gin-gonic/gin"
)

// SetupRoutes mounts every authenticated API route. auth must be the
// middleware that resolves the caller and role.
func SetupRoutes(router *gin.Engine, h *controllers.Handler, auth gin.HandlerFunc) {
	api := router.Group("/api")

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(auth)
	{
		ideas := protected.Group("/ideas")
		{
			ideas.GET("", h.ListIdeas)
			ideas.POST("", h.CreateIdea)
			ideas.GET("/:id", h.GetIdea)
			ideas.POST("/:id/submit", middleware.RequireRole(models.RoleSubmitter), h.SubmitIdea)

			// Any authenticated user; ownership is checked per idea
			ideas.GET("/:id/review-progress", h.GetReviewProgress)
			ideas.GET("/:id/scores", h.GetIdeaScores)

			// Only reviewers score
			ideas.PUT("/:id/score", middleware.RequireRole(models.RoleAdmin, models.RoleEvaluator), h.PutIdeaScore)
		}

		SetupAdminReviewRoutes(protected, h)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
