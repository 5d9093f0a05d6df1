package routes

import (
	"innovation-portal-api/controllers"
	"innovation-portal-api/middleware"
	"innovation-portal-api/models"

	"github.com/gin-gonic/gin"
)

// SetupAdminReviewRoutes mounts the review administration endpoints under
// /admin on an authenticated group.
func SetupAdminReviewRoutes(protected *gin.RouterGroup, h *controllers.Handler) {
	admin := protected.Group("/admin")
	{
		// Only admin manages workflows and settings
		admin.GET("/review/workflow", middleware.RequireRole(models.RoleAdmin), h.GetReviewWorkflow)
		admin.PUT("/review/workflow", middleware.RequireRole(models.RoleAdmin), h.PutReviewWorkflow)
		admin.GET("/settings/blind-review", middleware.RequireRole(models.RoleAdmin), h.GetBlindReview)
		admin.PUT("/settings/blind-review", middleware.RequireRole(models.RoleAdmin), h.PutBlindReview)

		// Admin and evaluators move ideas through stages
		stage := admin.Group("/review/ideas/:id/stage")
		stage.Use(middleware.RequireRole(models.RoleAdmin, models.RoleEvaluator))
		{
			stage.GET("", h.GetIdeaStage)
			stage.POST("", h.PostIdeaStage)
		}
	}
}
